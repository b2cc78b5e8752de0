// Package report renders the outcome of a workflow run for the terminal or as
// a YAML document.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/threadsmith/internal/workflow"
)

const previewRunes = 50

// Summary is the exported view of a finished run.
type Summary struct {
	RunID              string             `yaml:"run_id,omitempty"`
	Draft              string             `yaml:"draft"`
	CharacterCount     int                `yaml:"character_count"`
	Status             string             `yaml:"status"`
	Iterations         int                `yaml:"iterations"`
	Language           string             `yaml:"language,omitempty"`
	ApprovedAfter      string             `yaml:"editor_approved_after,omitempty"`
	Versions           []string           `yaml:"versions"`
	ResearcherAnalysis string             `yaml:"researcher_analysis,omitempty"`
	DraftAnalysis      string             `yaml:"draft_analysis,omitempty"`
	EditorFeedback     string             `yaml:"editor_feedback,omitempty"`
	EditorHistory      []string           `yaml:"editor_history,omitempty"`
	Messages           []workflow.Message `yaml:"messages,omitempty"`
}

// Summarize builds a Summary from s. The empty seed version is dropped.
func Summarize(s *workflow.State, runID string) Summary {
	sum := Summary{
		RunID:              runID,
		Draft:              s.Draft,
		CharacterCount:     s.CharacterCount,
		Status:             string(s.Status),
		Iterations:         s.IterationCount,
		Language:           s.Language,
		ResearcherAnalysis: s.ResearcherAnalysis,
		DraftAnalysis:      s.DraftAnalysis,
		EditorFeedback:     s.EditorFeedback,
		EditorHistory:      s.EditorHistory,
		Messages:           s.Messages,
	}
	if s.EditorApprovedAfter > 0 {
		sum.ApprovedAfter = s.EditorApprovedAfter.Round(10 * time.Millisecond).String()
	}
	if len(s.Versions) > 1 {
		sum.Versions = s.Versions[1:]
	}
	return sum
}

// Write prints the final state in reading order.
func Write(w io.Writer, s *workflow.State) error {
	var b strings.Builder

	b.WriteString("\nFinal State:\n")
	fmt.Fprintf(&b, "Approved Draft: %s\n", s.Draft)
	fmt.Fprintf(&b, "Character Count: %d\n", s.CharacterCount)
	fmt.Fprintf(&b, "Final Status: %s\n", s.Status)
	fmt.Fprintf(&b, "Total Iterations: %d\n", s.IterationCount)
	if s.EditorApprovedAfter > 0 {
		fmt.Fprintf(&b, "Time to editor approval: %s\n", formatDuration(s.EditorApprovedAfter))
	}

	b.WriteString("\nVersion History:\n")
	if len(s.Versions) <= 1 {
		b.WriteString("No versions written\n")
	}
	for i := 1; i < len(s.Versions); i++ {
		fmt.Fprintf(&b, "Version %d: %s\n", i, workflow.Preview(s.Versions[i], previewRunes))
	}

	section(&b, "Researcher Analysis", s.ResearcherAnalysis, "No researcher analysis available")
	section(&b, "Final Editor Feedback", s.EditorFeedback, "No editor feedback available")
	section(&b, "Draft Analysis", s.DraftAnalysis, "No draft analysis available")

	b.WriteString("\nMessages:\n")
	for _, m := range s.Messages {
		fmt.Fprintf(&b, "- [%s] %s\n", m.Role, m.Content)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, title, body, empty string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	if body == "" {
		body = empty
	}
	b.WriteString(body)
	b.WriteByte('\n')
}

// formatDuration renders d as "M minutes and S.SS seconds".
func formatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d - time.Duration(minutes)*time.Minute).Seconds()
	return fmt.Sprintf("%d minutes and %.2f seconds", minutes, seconds)
}

// WriteYAML exports the run as a YAML document.
func WriteYAML(w io.Writer, s *workflow.State, runID string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Summarize(s, runID)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
