// Package httpchat implements llm.Backend against any chat-completion
// HTTP endpoint that follows the OpenAI response shape
// (choices[0].message.content). It backs the piapi and deepseek
// providers, both of which expose that wire format directly.
package httpchat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/curvewatch/curvewatch/llm"
)

// Config configures an HTTP chat-completion backend.
type Config struct {
	// Name is the canonical provider identifier (e.g. "piapi").
	Name string

	// APIKey is sent as a Bearer token. If empty, Complete fails fast
	// with llm.ErrMissingCredential and makes no network call.
	APIKey string

	// KeyEnv names the environment variable the key comes from, used
	// only in the missing-credential diagnostic.
	KeyEnv string

	// Model is the model identifier sent in the request body.
	Model string

	// BaseURL is the full chat-completions endpoint URL.
	BaseURL string
}

// Client is an llm.Backend over a plain HTTP chat-completion endpoint.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a backend for cfg. Requests are bounded by a 60 second
// timeout.
func New(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the configured provider identifier.
func (c *Client) Name() string { return c.cfg.Name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and extracts the generated
// text.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%s: %w (%s not set)", c.cfg.Name, llm.ErrMissingCredential, c.cfg.KeyEnv)
	}

	temperature := llm.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s API: %w", c.cfg.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s API: reading response: %w", c.cfg.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API error (%d): %s", c.cfg.Name, resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%s: unexpected response: %s", c.cfg.Name, string(raw))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: unexpected response: %s", c.cfg.Name, string(raw))
	}
	return parsed.Choices[0].Message.Content, nil
}
