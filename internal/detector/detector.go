// Package detector identifies the language a draft is written in so the
// writer can be held to it.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Languages is the candidate set. Restricting it keeps the detector's
// memory footprint small and short posts less ambiguous.
var Languages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
	lingua.Polish,
	lingua.Ukrainian,
	lingua.Russian,
	lingua.Turkish,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
}

// Detector wraps a lingua detector. Building one is expensive; reuse it.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(Languages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text's language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Name returns the English name of the language with ISO 639-1 code iso,
// or iso itself when it is not a candidate.
func Name(iso string) string {
	for _, l := range Languages {
		if strings.EqualFold(l.IsoCode639_1().String(), iso) {
			return l.String()
		}
	}
	return iso
}
