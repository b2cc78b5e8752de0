package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/valpere/threadsmith/internal/postprocess"
)

// DefaultOpenAIBaseURL points at a local LM Studio server.
const DefaultOpenAIBaseURL = "http://localhost:1234/v1"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient builds a client from s. Local servers ignore the API key,
// so a placeholder is sent when none is configured.
func NewOpenAIClient(s Settings) (*OpenAIClient, error) {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	apiKey := s.APIKey
	if apiKey == "" {
		apiKey = "lm-studio"
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// retries are owned by Retrying
		option.WithMaxRetries(0),
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		return "", errors.New("openai: model is required")
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return postprocess.Clean(resp.Choices[0].Message.Content), nil
}
