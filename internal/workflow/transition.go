package workflow

import "fmt"

// Step names the handler the driver invokes next.
type Step int

const (
	StepTerminal Step = iota
	StepUser
	StepDraftAnalyzer
	StepResearcher
	StepWriter
	StepEditor
)

func (s Step) String() string {
	switch s {
	case StepTerminal:
		return "terminal"
	case StepUser:
		return "user"
	case StepDraftAnalyzer:
		return "draft_analyzer"
	case StepResearcher:
		return "researcher"
	case StepWriter:
		return "writer"
	case StepEditor:
		return "editor"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Next maps the current status to the next step. The iteration ceiling is
// checked before the status. A status outside the table yields StepTerminal
// together with ErrUnhandledStatus.
//
// StatusInitial is not in the table: the driver enters the user handler
// directly for it.
func Next(status Status, iterations, maxIterations int) (Step, error) {
	if iterations > maxIterations {
		return StepTerminal, nil
	}
	switch status {
	case StatusApproved:
		return StepTerminal, nil
	case StatusDraftSubmitted:
		return StepDraftAnalyzer, nil
	case StatusDraftAnalyzed:
		return StepResearcher, nil
	case StatusResearchComplete:
		return StepWriter, nil
	case StatusNeedsRevision:
		return StepWriter, nil
	case StatusReadyForEditor:
		return StepEditor, nil
	case StatusUserApproval:
		return StepUser, nil
	case StatusEditing:
		return StepWriter, nil
	default:
		return StepTerminal, fmt.Errorf("%w: %q", ErrUnhandledStatus, status)
	}
}
