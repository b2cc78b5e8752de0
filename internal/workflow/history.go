package workflow

import (
	"fmt"
	"strings"
)

// RejectionReason returns why version i (i ≥ 1) was superseded: the current
// editor feedback for the latest version, a length violation for an
// over-long version, otherwise the editor review recorded for it.
func RejectionReason(s *State, i, maxChars int) string {
	version := s.Versions[i]
	switch {
	case i == len(s.Versions)-1:
		return s.EditorFeedback
	case CharCount(version) > maxChars:
		return fmt.Sprintf("Exceeded character limit by %d characters (%d characters).",
			CharCount(version)-maxChars, CharCount(version))
	case i-1 < len(s.EditorHistory):
		return s.EditorHistory[i-1]
	default:
		return ""
	}
}

// Narrative renders every version after the empty seed with its rejection
// reason, for inclusion in the writer prompt.
func Narrative(s *State, maxChars int) string {
	var sb strings.Builder
	for i := 1; i < len(s.Versions); i++ {
		sb.WriteString(fmt.Sprintf("## Version %d:\n%s\n**Reason for Rejection:** %s\n\n",
			i, s.Versions[i], RejectionReason(s, i, maxChars)))
	}
	return sb.String()
}

// Preview truncates text to n runes, marking the cut with "...".
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
