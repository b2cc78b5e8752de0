package workflow

import (
	"errors"
	"testing"
)

func TestNext(t *testing.T) {
	tests := []struct {
		status Status
		want   Step
	}{
		{StatusDraftSubmitted, StepDraftAnalyzer},
		{StatusDraftAnalyzed, StepResearcher},
		{StatusResearchComplete, StepWriter},
		{StatusReadyForEditor, StepEditor},
		{StatusNeedsRevision, StepWriter},
		{StatusEditing, StepWriter},
		{StatusUserApproval, StepUser},
		{StatusApproved, StepTerminal},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got, err := Next(tt.status, 1, 30)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next(%s) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestNext_IterationCeilingOverridesStatus(t *testing.T) {
	for _, st := range allStatuses {
		got, err := Next(st, 31, 30)
		if err != nil {
			t.Errorf("Next(%s, 31) unexpected error: %v", st, err)
		}
		if got != StepTerminal {
			t.Errorf("Next(%s, 31) = %s, want terminal", st, got)
		}
	}

	if got, _ := Next(StatusNeedsRevision, 30, 30); got != StepWriter {
		t.Errorf("at the ceiling the status still routes, got %s", got)
	}
}

func TestNext_UnhandledStatus(t *testing.T) {
	for _, st := range []Status{"fact_check", "", StatusInitial} {
		got, err := Next(st, 1, 30)
		if got != StepTerminal {
			t.Errorf("Next(%q) = %s, want terminal", st, got)
		}
		if !errors.Is(err, ErrUnhandledStatus) {
			t.Errorf("Next(%q) error = %v, want ErrUnhandledStatus", st, err)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, st := range allStatuses {
		got, err := ParseStatus(string(st))
		if err != nil || got != st {
			t.Errorf("ParseStatus(%q) = %q, %v", st, got, err)
		}
	}
	if _, err := ParseStatus("ready_for_fact_check"); !errors.Is(err, ErrUnhandledStatus) {
		t.Errorf("expected ErrUnhandledStatus, got %v", err)
	}
}

func TestGovernor_Enter(t *testing.T) {
	g := Governor{Ceiling: 3}
	s := NewState()

	for i := 1; i <= 3; i++ {
		if g.Enter(s) {
			t.Fatalf("forced at iteration %d", i)
		}
		if s.IterationCount != i {
			t.Fatalf("IterationCount = %d, want %d", s.IterationCount, i)
		}
	}
	if !g.Enter(s) {
		t.Error("expected forced approval past the ceiling")
	}
	if s.IterationCount != 4 {
		t.Errorf("IterationCount = %d, want 4", s.IterationCount)
	}
}

func TestGovernor_DefaultCeiling(t *testing.T) {
	s := NewState()
	s.IterationCount = DefaultGovernorCeiling - 1

	var g Governor
	if g.Enter(s) {
		t.Error("did not expect forced approval at the ceiling")
	}
	if !g.Enter(s) {
		t.Error("expected forced approval past the default ceiling")
	}
}
