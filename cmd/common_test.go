package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/threadsmith/internal/llm"
	"github.com/valpere/threadsmith/internal/workflow"
)

func TestWorkflowConfig_Defaults(t *testing.T) {
	got := workflowConfig()
	want := workflow.DefaultConfig()

	if got != want {
		t.Errorf("workflowConfig() = %+v, want %+v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestWorkflowConfig_Override(t *testing.T) {
	viper.Set("limits.max_chars", 280)
	viper.Set("editor.approve_above", 7)
	t.Cleanup(func() {
		viper.Set("limits.max_chars", workflow.DefaultConfig().MaxChars)
		viper.Set("editor.approve_above", workflow.DefaultConfig().ApproveAbove)
	})

	got := workflowConfig()
	if got.MaxChars != 280 || got.ApproveAbove != 7 {
		t.Errorf("overrides not applied: %+v", got)
	}
}

func TestBuildClient(t *testing.T) {
	c, err := buildClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*llm.Retrying); !ok {
		t.Errorf("expected the backend to be wrapped in Retrying, got %T", c)
	}

	viper.Set("backend", "bedrock")
	t.Cleanup(func() { viper.Set("backend", "openai") })
	if _, err := buildClient(); err == nil {
		t.Error("expected an unknown backend to fail")
	}
}

func TestJournalRecord(t *testing.T) {
	start := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	s := workflow.NewState()
	s.Messages = append(s.Messages,
		workflow.Message{Role: workflow.RoleHuman, Content: "Hello world", At: start},
		workflow.Message{Role: workflow.RoleWriter, Content: "Hello, world!", At: start.Add(time.Second)},
		workflow.Message{Role: workflow.RoleHuman, Content: "Approved.", At: start.Add(2 * time.Second)},
	)
	s.Draft = "Hello, world!"
	s.Status = workflow.StatusApproved
	s.Versions = append(s.Versions, "Hello, world!")
	s.EditorHistory = []string{"Score: 9"}
	s.IterationCount = 6
	s.StartTime = start

	rec := journalRecord(s, "llama3")

	if rec.InitialDraft != "Hello world" {
		t.Errorf("InitialDraft = %q, want the first human message", rec.InitialDraft)
	}
	if rec.FinalDraft != "Hello, world!" || rec.Status != "approved" || rec.Model != "llama3" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Versions) != 2 || len(rec.Reviews) != 1 || len(rec.Messages) != 4 {
		t.Errorf("Versions = %d, Reviews = %d, Messages = %d", len(rec.Versions), len(rec.Reviews), len(rec.Messages))
	}
	if rec.Messages[1].Role != "human" {
		t.Errorf("Messages[1].Role = %q", rec.Messages[1].Role)
	}
}
