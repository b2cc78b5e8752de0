package internal

import "time"

// RunRecord is a finished workflow run as archived in the journal.
type RunRecord struct {
	ID                 string        `json:"id" yaml:"id"`
	InitialDraft       string        `json:"initial_draft" yaml:"initial_draft"`
	FinalDraft         string        `json:"final_draft" yaml:"final_draft"`
	Status             string        `json:"status" yaml:"status"`
	Language           string        `json:"language,omitempty" yaml:"language,omitempty"`
	Model              string        `json:"model" yaml:"model"`
	Iterations         int           `json:"iterations" yaml:"iterations"`
	CharacterCount     int           `json:"character_count" yaml:"character_count"`
	StartedAt          time.Time     `json:"started_at" yaml:"started_at"`
	ApprovedAfter      time.Duration `json:"approved_after" yaml:"approved_after"`
	ResearcherAnalysis string        `json:"researcher_analysis,omitempty" yaml:"researcher_analysis,omitempty"`
	DraftAnalysis      string        `json:"draft_analysis,omitempty" yaml:"draft_analysis,omitempty"`
	EditorFeedback     string        `json:"editor_feedback,omitempty" yaml:"editor_feedback,omitempty"`
	Versions           []string      `json:"versions,omitempty" yaml:"versions,omitempty"`
	Reviews            []string      `json:"reviews,omitempty" yaml:"reviews,omitempty"`
	Messages           []RunMessage  `json:"messages,omitempty" yaml:"messages,omitempty"`
	CreatedAt          time.Time     `json:"created_at" yaml:"created_at"`
}

type RunMessage struct {
	Role    string    `json:"role" yaml:"role"`
	Content string    `json:"content" yaml:"content"`
	At      time.Time `json:"at" yaml:"at"`
}
