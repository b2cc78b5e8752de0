// Package validator checks that a generated draft stays in the language the
// author wrote in.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/threadsmith/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language
// detection. Shorter drafts produce unreliable results and pass.
const minValidationLength = 20

type Validator struct {
	det *detector.Detector
}

// New creates a Validator over det, building a detector when det is nil.
func New(det *detector.Detector) *Validator {
	if det == nil {
		det = detector.New()
	}
	return &Validator{det: det}
}

// Check returns nil when draft appears to be written in lang.
//
// An empty lang, a short draft or an undeterminable language all pass. A
// mismatch names both codes.
func (v *Validator) Check(draft, lang string) error {
	if lang == "" {
		return nil
	}

	text := strings.TrimSpace(draft)
	if text == "" {
		return fmt.Errorf("draft is empty")
	}
	if len([]rune(text)) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(detected, lang) {
		return fmt.Errorf("expected %s but detected %s", lang, detected)
	}
	return nil
}

// DetectISO reports the language of text.
func (v *Validator) DetectISO(text string) (string, bool) {
	return v.det.DetectISO(text)
}

// Name returns the English name for an ISO 639-1 code.
func (v *Validator) Name(iso string) string {
	return detector.Name(iso)
}
