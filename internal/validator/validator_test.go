package validator

import (
	"testing"

	"github.com/valpere/threadsmith/internal/detector"
)

var det = detector.New()

func TestCheck(t *testing.T) {
	v := New(det)

	tests := []struct {
		name    string
		draft   string
		lang    string
		wantErr bool
	}{
		{name: "no language recorded", draft: "anything at all", lang: "", wantErr: false},
		{name: "empty draft", draft: "", lang: "en", wantErr: true},
		{name: "whitespace draft", draft: "   ", lang: "en", wantErr: true},
		{name: "short draft", draft: "Hi all", lang: "de", wantErr: false},
		{
			name:    "same language",
			draft:   "Open models caught up with the big labs this year. Are you ready to switch?",
			lang:    "en",
			wantErr: false,
		},
		{
			name:    "language drift",
			draft:   "Offene Modelle haben die großen Labore in diesem Jahr eingeholt. Bist du bereit?",
			lang:    "en",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.draft, tt.lang)
			if (err != nil) != tt.wantErr {
				t.Errorf("Check(%q, %q) error = %v, wantErr %v", tt.draft, tt.lang, err, tt.wantErr)
			}
		})
	}
}
