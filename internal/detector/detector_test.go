package detector

import (
	"testing"
)

func TestDetector_DetectISO(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{name: "empty text", text: "", wantOK: false},
		{name: "whitespace", text: "   \n", wantOK: false},
		{
			name:     "english draft",
			text:     "Open source models just caught up with the big labs. What does that mean for your team?",
			wantCode: "en",
			wantOK:   true,
		},
		{
			name:     "german draft",
			text:     "Offene Modelle haben die großen Labore eingeholt. Was bedeutet das für dein Team?",
			wantCode: "de",
			wantOK:   true,
		},
		{
			name:     "ukrainian draft",
			text:     "Відкриті моделі наздогнали великі лабораторії. Що це означає для вашої команди?",
			wantCode: "uk",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && code != tt.wantCode {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestName(t *testing.T) {
	if got := Name("en"); got != "English" {
		t.Errorf("Name(en) = %q, want English", got)
	}
	if got := Name("DE"); got != "German" {
		t.Errorf("Name(DE) = %q, want German", got)
	}
	if got := Name("xx"); got != "xx" {
		t.Errorf("Name(xx) = %q, want xx", got)
	}
}
