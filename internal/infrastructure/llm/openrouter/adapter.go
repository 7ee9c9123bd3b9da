package openrouter

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"web-navigator/internal/application/port/output"
)

var _ output.LLMPort = (*Adapter)(nil)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

// Adapter calls an OpenAI-compatible endpoint (OpenRouter by default) for
// plain completions.
type Adapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

func New(cfg Config, logger output.LoggerPort) *Adapter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Adapter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

func (a *Adapter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	a.logger.Debug("llm completion", "model", a.model, "chars", len(resp.Choices[0].Message.Content))
	return resp.Choices[0].Message.Content, nil
}
