// Package workflow implements the status-driven revision workflow: the State
// Record threaded through every step, the role handlers that act on it, the
// transition function that picks the next role and the driver that runs the
// loop until the human approves a draft or a ceiling ends the run.
package workflow

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Status is the discrete workflow state controlling which role acts next.
type Status string

const (
	StatusInitial          Status = "initial"
	StatusDraftSubmitted   Status = "draft_submitted"
	StatusDraftAnalyzed    Status = "draft_analyzed"
	StatusResearchComplete Status = "research_complete"
	StatusReadyForEditor   Status = "ready_for_editor"
	StatusNeedsRevision    Status = "needs_revision"
	StatusEditing          Status = "editing"
	StatusUserApproval     Status = "user_approval"
	StatusApproved         Status = "approved"
)

var allStatuses = []Status{
	StatusInitial,
	StatusDraftSubmitted,
	StatusDraftAnalyzed,
	StatusResearchComplete,
	StatusReadyForEditor,
	StatusNeedsRevision,
	StatusEditing,
	StatusUserApproval,
	StatusApproved,
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnhandledStatus, s)
}

// Role tags an entry of the audit log.
type Role string

const (
	RoleSystem        Role = "system"
	RoleHuman         Role = "human"
	RoleDraftAnalyzer Role = "draft_analyzer"
	RoleResearcher    Role = "researcher"
	RoleWriter        Role = "writer"
	RoleEditor        Role = "editor"
	RoleGovernor      Role = "governor"
)

// Message is one entry of the audit log.
type Message struct {
	Role    Role      `json:"role" yaml:"role"`
	Content string    `json:"content" yaml:"content"`
	At      time.Time `json:"at" yaml:"at"`
}

// SystemPrompt seeds the audit log of every new run.
const SystemPrompt = "You are helping create a status update."

// State is the single mutable record owned by the Engine. Handlers read it
// and return an Update; only the Engine applies updates.
type State struct {
	Draft               string
	CharacterCount      int
	Status              Status
	Versions            []string
	ResearcherAnalysis  string
	DraftAnalysis       string
	EditorFeedback      string
	EditorHistory       []string
	IterationCount      int
	StartTime           time.Time
	EditorApprovedAfter time.Duration
	Language            string
	Messages            []Message
}

// NewState returns the seed record: status initial, one empty version.
func NewState() *State {
	return &State{
		Status:   StatusInitial,
		Versions: []string{""},
		Messages: []Message{{Role: RoleSystem, Content: SystemPrompt, At: time.Now()}},
	}
}

// Update is a partial update returned by a handler. Nil fields are left
// untouched; Append* fields grow the append-only logs.
type Update struct {
	Draft               *string
	CharacterCount      *int
	Status              *Status
	ResearcherAnalysis  *string
	DraftAnalysis       *string
	EditorFeedback      *string
	StartTime           *time.Time
	EditorApprovedAfter *time.Duration
	Language            *string

	AppendVersion *string
	AppendReview  *string
	Messages      []Message
}

// IsZero reports whether u carries no change.
func (u Update) IsZero() bool {
	return u.Draft == nil && u.CharacterCount == nil && u.Status == nil &&
		u.ResearcherAnalysis == nil && u.DraftAnalysis == nil && u.EditorFeedback == nil &&
		u.StartTime == nil && u.EditorApprovedAfter == nil && u.Language == nil &&
		u.AppendVersion == nil && u.AppendReview == nil && len(u.Messages) == 0
}

// Apply merges u into s. A version longer than maxChars runes is refused and
// leaves s unchanged.
func (s *State) Apply(u Update, maxChars int) error {
	if u.AppendVersion != nil {
		if n := CharCount(*u.AppendVersion); n > maxChars {
			return fmt.Errorf("version of %d characters exceeds limit of %d", n, maxChars)
		}
	}
	if u.Status != nil {
		if _, err := ParseStatus(string(*u.Status)); err != nil {
			return err
		}
		s.Status = *u.Status
	}
	if u.Draft != nil {
		s.Draft = *u.Draft
	}
	if u.CharacterCount != nil {
		s.CharacterCount = *u.CharacterCount
	}
	if u.ResearcherAnalysis != nil {
		s.ResearcherAnalysis = *u.ResearcherAnalysis
	}
	if u.DraftAnalysis != nil {
		s.DraftAnalysis = *u.DraftAnalysis
	}
	if u.EditorFeedback != nil {
		s.EditorFeedback = *u.EditorFeedback
	}
	if u.StartTime != nil && s.StartTime.IsZero() {
		s.StartTime = *u.StartTime
	}
	if u.EditorApprovedAfter != nil {
		s.EditorApprovedAfter = *u.EditorApprovedAfter
	}
	if u.Language != nil {
		s.Language = *u.Language
	}
	if u.AppendVersion != nil {
		s.Versions = append(s.Versions, *u.AppendVersion)
	}
	if u.AppendReview != nil {
		s.EditorHistory = append(s.EditorHistory, *u.AppendReview)
	}
	s.Messages = append(s.Messages, u.Messages...)
	return nil
}

// CharCount is the length measure used for the character limit: the number
// of Unicode code points.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

func ref[T any](v T) *T { return &v }
