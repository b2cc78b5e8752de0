package postprocess

import "testing"

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no thinking blocks", input: "Score: 7\nFeedback: solid hook.", expected: "Score: 7\nFeedback: solid hook."},
		{name: "think block", input: "<think>The user wants a short post</think>Score: 6", expected: "Score: 6"},
		{name: "reasoning block", input: "Start<reasoning>count characters</reasoning>End", expected: "StartEnd"},
		{name: "multiple blocks", input: "<thinking>First</thinking>middle<thinking>Second</thinking>", expected: "middle"},
		{name: "truncated block", input: "<thinking>Drafting the hook", expected: ""},
		{name: "truncated block after content", input: "RESPONSE_START\nText\nRESPONSE_END<think>cut off", expected: "RESPONSE_START\nText\nRESPONSE_END"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeThinkingBlocks(tt.input)
			if result != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemovePreamble(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no preamble", input: "AI agents just got cheaper.", expected: "AI agents just got cheaper."},
		{name: "here is the status update", input: "Here is the status update: AI agents just got cheaper.", expected: "AI agents just got cheaper."},
		{name: "here's my revised draft", input: "Here's my revised draft: Text", expected: "Text"},
		{name: "sure here is the analysis", input: "Sure, here is the analysis: Audience is developers.", expected: "Audience is developers."},
		{name: "not at start", input: "Before. Here is the draft: After", expected: "Before. Here is the draft: After"},
		{name: "without colon", input: "Here is the update everyone waited for", expected: "Here is the update everyone waited for"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removePreamble(tt.input)
			if result != tt.expected {
				t.Errorf("removePreamble(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveQuoteWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "single char", input: "a", expected: "a"},
		{name: "no quotes", input: "Hello world", expected: "Hello world"},
		{name: "double quotes", input: "\"Hello world\"", expected: "Hello world"},
		{name: "guillemets", input: "«Hello world»", expected: "Hello world"},
		{name: "curly double quotes", input: "“Hello world”", expected: "Hello world"},
		{name: "curly single quotes", input: "‘Hello world’", expected: "Hello world"},
		{name: "unmatched quotes", input: "\"Hello world'", expected: "\"Hello world'"},
		{name: "only opening quote", input: "\"Hello world", expected: "\"Hello world"},
		{name: "inner whitespace trimmed", input: "\"  Hello  \"", expected: "Hello"},
		{
			name:     "separate quoted phrases",
			input:    "\"Move fast\" is dead. Teams still believe in \"move fast\"",
			expected: "\"Move fast\" is dead. Teams still believe in \"move fast\"",
		},
		{name: "nested guillemets", input: "«a» and «b»", expected: "«a» and «b»"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeQuoteWrapping(tt.input)
			if result != tt.expected {
				t.Errorf("removeQuoteWrapping(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "clean text", input: "Score: 8", expected: "Score: 8"},
		{
			name:     "thinking + preamble + quotes",
			input:    "<think>Keep it short</think>Here is the status update:\n\"Short post\"",
			expected: "Short post",
		},
		{
			name:     "feedback quoting the draft",
			input:    "\"Ship it\" is a weak hook. Score: 4. Try \"Shipped\"",
			expected: "\"Ship it\" is a weak hook. Score: 4. Try \"Shipped\"",
		},
		{
			name:     "markers survive",
			input:    "<think>plan</think>\nRESPONSE_START\nPost\nRESPONSE_END",
			expected: "RESPONSE_START\nPost\nRESPONSE_END",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clean(tt.input)
			if result != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
