// Package anthropic implements llm.Backend using the official Anthropic
// Go SDK (Messages API).
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/curvewatch/curvewatch/llm"
)

// Config configures the Anthropic backend.
type Config struct {
	// APIKey authenticates the SDK client. If empty, Complete fails fast
	// with llm.ErrMissingCredential and makes no network call.
	APIKey string

	// Model is the model identifier for message requests.
	// Defaults to "claude-sonnet-4-20250514".
	Model string
}

// Client is an llm.Backend over the Anthropic Messages API.
type Client struct {
	cfg    Config
	client anthropic.Client
}

// New creates a backend for cfg.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	return &Client{
		cfg:    cfg,
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
	}
}

// Name returns the canonical provider identifier.
func (c *Client) Name() string { return "anthropic" }

// Complete sends one Messages request through the SDK. The system prompt
// rides in the dedicated system field; the user prompt is the single
// conversation message.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("anthropic: %w (ANTHROPIC_API_KEY not set)", llm.ErrMissingCredential)
	}

	temperature := llm.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(req.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(temperature),
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API: %w", err)
	}

	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok && b.Text != "" {
			return b.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: unexpected response: %s", resp.RawJSON())
}
