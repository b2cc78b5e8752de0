package workflow

import (
	"strings"
	"testing"
)

func TestNarrative(t *testing.T) {
	s := NewState()
	s.Versions = append(s.Versions, "first", strings.Repeat("x", 12), "third")
	s.EditorHistory = []string{"Score: 3 weak hook", "Score: 4 too long", "Score: 5 close"}
	s.EditorFeedback = "Score: 5 close\nPlease shorten the draft."

	got := Narrative(s, 10)

	wants := []string{
		"## Version 1:\nfirst\n**Reason for Rejection:** Score: 3 weak hook\n\n",
		"## Version 2:\nxxxxxxxxxxxx\n**Reason for Rejection:** Exceeded character limit by 2 characters (12 characters).\n\n",
		"## Version 3:\nthird\n**Reason for Rejection:** Score: 5 close\nPlease shorten the draft.\n\n",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("narrative missing %q\ngot:\n%s", w, got)
		}
	}
	if strings.Contains(got, "Version 0") {
		t.Error("the empty seed must not be rendered")
	}
}

func TestNarrative_SeedOnly(t *testing.T) {
	if got := Narrative(NewState(), 500); got != "" {
		t.Errorf("expected empty narrative, got %q", got)
	}
}

func TestRejectionReason_MissingHistory(t *testing.T) {
	s := NewState()
	s.Versions = append(s.Versions, "a", "b")
	s.EditorFeedback = "latest"

	if got := RejectionReason(s, 1, 500); got != "" {
		t.Errorf("expected empty reason without a review, got %q", got)
	}
	if got := RejectionReason(s, 2, 500); got != "latest" {
		t.Errorf("expected current feedback for the latest version, got %q", got)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short", 50); got != "short" {
		t.Errorf("Preview = %q", got)
	}
	if got := Preview("abcdef", 3); got != "abc..." {
		t.Errorf("Preview = %q, want abc...", got)
	}
	if got := Preview("Привіт світ", 6); got != "Привіт..." {
		t.Errorf("Preview must cut on runes, got %q", got)
	}
}

func TestExtractGeneration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "both markers", input: "RESPONSE_START\nPost text\nRESPONSE_END", want: "Post text"},
		{name: "chatter around", input: "Sure!\nRESPONSE_START Post RESPONSE_END\nthanks", want: "Post"},
		{name: "first end wins", input: "RESPONSE_START a RESPONSE_END b RESPONSE_END", want: "a"},
		{name: "missing start", input: "Post text\nRESPONSE_END", wantErr: true},
		{name: "missing end", input: "RESPONSE_START\nPost text", wantErr: true},
		{name: "end before start", input: "RESPONSE_END x RESPONSE_START", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractGeneration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractGeneration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractGeneration() = %q, want %q", got, tt.want)
			}
		})
	}
}
