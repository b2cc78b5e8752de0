package workflow

import (
	"strings"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Status != StatusInitial {
		t.Errorf("Status = %s, want initial", s.Status)
	}
	if len(s.Versions) != 1 || s.Versions[0] != "" {
		t.Errorf("Versions = %q, want one empty seed", s.Versions)
	}
	if len(s.Messages) != 1 || s.Messages[0].Role != RoleSystem || s.Messages[0].Content != SystemPrompt {
		t.Errorf("Messages = %+v, want the system seed", s.Messages)
	}
	if !s.StartTime.IsZero() {
		t.Error("StartTime must be unset before submission")
	}
}

func TestApply(t *testing.T) {
	s := NewState()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := s.Apply(Update{
		Draft:     ref("Hello world"),
		StartTime: ref(start),
		Status:    ref(StatusDraftSubmitted),
		Messages:  []Message{{Role: RoleHuman, Content: "Hello world"}},
	}, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Draft != "Hello world" || s.Status != StatusDraftSubmitted || !s.StartTime.Equal(start) {
		t.Errorf("unexpected state: %+v", s)
	}
	if len(s.Messages) != 2 {
		t.Errorf("expected messages to be appended, got %d", len(s.Messages))
	}

	// StartTime is set once.
	later := start.Add(time.Hour)
	if err := s.Apply(Update{StartTime: ref(later)}, 500); err != nil {
		t.Fatal(err)
	}
	if !s.StartTime.Equal(start) {
		t.Error("StartTime must not be overwritten")
	}

	// An empty update changes nothing.
	before := *s
	if !(Update{}).IsZero() {
		t.Error("zero Update must report IsZero")
	}
	if err := s.Apply(Update{}, 500); err != nil {
		t.Fatal(err)
	}
	if s.Draft != before.Draft || s.Status != before.Status || len(s.Messages) != len(before.Messages) {
		t.Error("empty update modified the state")
	}
}

func TestApply_VersionLimit(t *testing.T) {
	s := NewState()

	if err := s.Apply(Update{AppendVersion: ref(strings.Repeat("a", 500)), AppendReview: ref("ok")}, 500); err != nil {
		t.Fatalf("500 characters must be accepted: %v", err)
	}
	if len(s.Versions) != 2 || len(s.EditorHistory) != 1 {
		t.Fatalf("Versions = %d, EditorHistory = %d", len(s.Versions), len(s.EditorHistory))
	}

	err := s.Apply(Update{AppendVersion: ref(strings.Repeat("a", 501)), Status: ref(StatusReadyForEditor)}, 500)
	if err == nil {
		t.Fatal("expected an over-long version to be refused")
	}
	if len(s.Versions) != 2 || s.Status == StatusReadyForEditor {
		t.Error("a refused update must leave the state unchanged")
	}
}

func TestApply_UnknownStatus(t *testing.T) {
	s := NewState()
	bogus := Status("ready_for_fact_check")

	if err := s.Apply(Update{Status: &bogus}, 500); err == nil {
		t.Error("expected unknown status to be refused")
	}
	if s.Status != StatusInitial {
		t.Errorf("Status = %s, want initial", s.Status)
	}
}

func TestCharCount(t *testing.T) {
	if n := CharCount("Hello world"); n != 11 {
		t.Errorf("CharCount = %d, want 11", n)
	}
	if n := CharCount("Привіт"); n != 6 {
		t.Errorf("CharCount counts code points, got %d", n)
	}
}
