package score

import (
	"regexp"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{name: "plain", input: "Score: 8", want: 8, wantOK: true},
		{name: "bold", input: "**Score:** 3", want: 3, wantOK: true},
		{name: "spaced", input: "Score : 5", want: 5, wantOK: true},
		{name: "lower case", input: "score: 7\nFeedback: tighten the hook.", want: 7, wantOK: true},
		{name: "embedded in prose", input: "Overall the draft is solid.\nScore: 9\nFeedback: good.", want: 9, wantOK: true},
		{name: "first match wins", input: "Score: 4 ... revised Score: 9", want: 4, wantOK: true},
		{name: "fraction", input: "Score **6/10**", want: 6, wantOK: true},
		{name: "bold label", input: "**Score**: 8", want: 8, wantOK: true},
		{name: "bold value", input: "Score: **8**", want: 8, wantOK: true},
		{name: "dash", input: "Score - 8", want: 8, wantOK: true},
		{name: "dash fraction", input: "Score - 7 / 10", want: 7, wantOK: true},
		{name: "no score", input: "The hook is weak and the call to action is missing.", want: 0, wantOK: false},
		{name: "empty", input: "", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Extract(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractor_RuleName(t *testing.T) {
	_, name, ok := New().Extract("**Score:** 3")
	if !ok {
		t.Fatal("expected a match")
	}
	// "Score:" is followed by "**", so the plain rule cannot match.
	if name != "bold" {
		t.Errorf("expected rule 'bold', got %q", name)
	}
}

func TestExtractor_WithRule(t *testing.T) {
	base := New()
	rating := Rule{
		Name:    "rating",
		Pattern: regexp.MustCompile(`(?i)Rating\s*=\s*(\d+)`),
		Parse:   firstGroup,
	}
	ext := base.WithRule(rating)

	got, name, ok := ext.Extract("Rating = 6")
	if !ok || got != 6 || name != "rating" {
		t.Errorf("got %d, %q, %v; want 6, 'rating', true", got, name, ok)
	}

	if _, _, ok := base.Extract("Rating = 6"); ok {
		t.Error("WithRule must not modify the receiver")
	}
}

func TestExtractor_DecoratedRuleIsLast(t *testing.T) {
	_, name, ok := New().Extract("**Score**: 8")
	if !ok || name != "decorated" {
		t.Errorf("got rule %q, %v; want 'decorated', true", name, ok)
	}
	_, name, _ = New().Extract("Score: 8")
	if name != "plain" {
		t.Errorf("got rule %q, want 'plain'", name)
	}
}

func TestFirstGroup_Overflow(t *testing.T) {
	if _, ok := firstGroup([]string{"Score: 99999999999999999999", "99999999999999999999"}); ok {
		t.Error("expected overflow to be rejected")
	}
}
