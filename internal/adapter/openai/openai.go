// Package openai adapts a chat-completion API to the app.Completer port.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = goopenai.GPT3Dot5Turbo

const maxTokens = 100

// Config configures the completer.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Completer requests chat completions from an OpenAI-compatible API.
type Completer struct {
	client *goopenai.Client
	model  string
}

// New creates a Completer. BaseURL overrides the API endpoint, e.g. for a
// compatible proxy.
func New(cfg Config) *Completer {
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: goopenai.NewClientWithConfig(c), model: model}
}

// Complete sends prompt as a single user message and returns the first
// choice.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: %w: no choices", domain.ErrAnalysisUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// ErrNotConfigured is returned by Unconfigured.
var ErrNotConfigured = errors.New("completion api key not configured")

// Unconfigured is a completer that always fails. It stands in when no API
// key is set.
type Unconfigured struct{}

// Complete always returns ErrNotConfigured.
func (Unconfigured) Complete(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %w", domain.ErrAnalysisUnavailable, ErrNotConfigured)
}
