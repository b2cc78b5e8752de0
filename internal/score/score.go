// Package score turns free-form editor critique into a numeric approval
// signal.
//
// Critique text is not guaranteed to follow one format, so extraction runs an
// ordered list of rules and takes the first one that matches. New formatting
// variants are added as rules.
package score

import (
	"regexp"
	"strconv"
)

// Rule extracts a score from the submatches of Pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Parse   func(groups []string) (int, bool)
}

// firstGroup parses the first capture group as a base-10 integer.
func firstGroup(groups []string) (int, bool) {
	if len(groups) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// DefaultRules are tried in order. All are case-insensitive.
var DefaultRules = []Rule{
	{Name: "plain", Pattern: regexp.MustCompile(`(?i)Score:\s*(\d+)`), Parse: firstGroup},
	{Name: "bold", Pattern: regexp.MustCompile(`(?i)\*\*Score:\*\*\s*(\d+)`), Parse: firstGroup},
	{Name: "spaced", Pattern: regexp.MustCompile(`(?i)Score\s*:\s*(\d+)`), Parse: firstGroup},
	// "Score **7/10**", "Score - 7 / 10"
	{Name: "fraction", Pattern: regexp.MustCompile(`(?i)Score\W{0,6}(\d+)\s*/\s*10`), Parse: firstGroup},
	// "**Score**: 8", "Score: **8**", "Score - 8"
	{Name: "decorated", Pattern: regexp.MustCompile(`(?i)\*{0,2}Score\*{0,2}\s*[:\-]\s*\*{0,2}(\d+)`), Parse: firstGroup},
}

// Extractor applies rules in order.
type Extractor struct {
	rules []Rule
}

// New returns an Extractor over DefaultRules.
func New() *Extractor {
	rules := make([]Rule, len(DefaultRules))
	copy(rules, DefaultRules)
	return &Extractor{rules: rules}
}

// WithRule returns a copy of e with r appended after the existing rules.
func (e *Extractor) WithRule(r Rule) *Extractor {
	rules := make([]Rule, 0, len(e.rules)+1)
	rules = append(rules, e.rules...)
	rules = append(rules, r)
	return &Extractor{rules: rules}
}

// Extract returns the score found by the first matching rule and the rule's
// name. When no rule matches it returns 0, "" and false; callers treat that
// as a failing review.
func (e *Extractor) Extract(text string) (int, string, bool) {
	for _, r := range e.rules {
		groups := r.Pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		if n, ok := r.Parse(groups); ok {
			return n, r.Name, true
		}
	}
	return 0, "", false
}

// Extract runs the default rules over text.
func Extract(text string) (int, bool) {
	n, _, ok := New().Extract(text)
	return n, ok
}
