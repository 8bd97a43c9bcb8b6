package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Config holds the completion-provider settings for OpenAIClient.
// BaseURL is empty for the hosted OpenAI API; set it to target a self-hosted
// OpenAI-compatible endpoint instead. Nothing else changes.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClient implements Client on top of langchaingo's OpenAI-compatible
// chat completion API.
type OpenAIClient struct {
	llm *openai.LLM
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient constructs a long-lived completion client from config.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return &OpenAIClient{llm: client}, nil
}

// Complete sends the full prompt and returns the first choice's content.
// Returns "" (and no error) when the provider produced no usable content.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case RoleAssistant:
			content = append(content, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		default:
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}

	output, err := c.llm.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(output.Choices) == 0 {
		return "", nil
	}

	return output.Choices[0].Content, nil
}
