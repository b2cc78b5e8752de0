// Package llm is the boundary to the text-generation backend consumed by
// every automated role. Requests are synchronous; streaming is not used.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	Stop        []string
}

// UserPrompt builds the request shape every role uses: one user message
// carrying the full prompt.
func UserPrompt(model, prompt string, temperature float64, stop ...string) Request {
	return Request{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		Stop:        stop,
	}
}

// Client completes a request with free-form text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Settings selects and configures a backend.
type Settings struct {
	Backend string `mapstructure:"backend" json:"backend"`
	Model   string `mapstructure:"model" json:"model"`
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	APIKey  string `mapstructure:"api_key" json:"-"`
}

// Backends lists the names accepted by New.
var Backends = []string{"openai", "ollama", "openrouter"}

// New constructs the backend named in s.Backend.
func New(s Settings) (Client, error) {
	switch strings.ToLower(s.Backend) {
	case "", "openai", "lmstudio":
		return NewOpenAIClient(s)
	case "ollama":
		return NewOllamaClient(s.BaseURL), nil
	case "openrouter":
		return NewOpenRouterClient(s.APIKey, s.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want one of %s)", s.Backend, strings.Join(Backends, ", "))
	}
}
