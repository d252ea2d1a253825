// Package openai implements llm.Backend using the official OpenAI Go SDK.
// It also serves OpenAI-compatible providers (Groq) via a custom BaseURL.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/curvewatch/curvewatch/llm"
)

// Config configures an SDK-backed chat-completion provider.
type Config struct {
	// Name is the canonical provider identifier ("openai" or "groq").
	Name string

	// APIKey authenticates the SDK client. If empty, Complete fails fast
	// with llm.ErrMissingCredential and makes no network call.
	APIKey string

	// KeyEnv names the environment variable the key comes from, used
	// only in the missing-credential diagnostic.
	KeyEnv string

	// Model is the model identifier for completion requests.
	Model string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string
}

// Client is an llm.Backend over the OpenAI chat-completions SDK.
type Client struct {
	cfg    Config
	client openai.Client
}

// New creates a backend for cfg.
func New(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		cfg:    cfg,
		client: openai.NewClient(opts...),
	}
}

// Name returns the configured provider identifier.
func (c *Client) Name() string { return c.cfg.Name }

// Complete sends one chat-completion request through the SDK.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%s: %w (%s not set)", c.cfg.Name, llm.ErrMissingCredential, c.cfg.KeyEnv)
	}

	temperature := llm.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s API: %w", c.cfg.Name, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: unexpected response: %s", c.cfg.Name, resp.RawJSON())
	}
	return resp.Choices[0].Message.Content, nil
}
