package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrMissingCredential is returned by a backend whose API key is not
// configured. The fallback client treats it like any other failure and
// moves on to the next backend.
var ErrMissingCredential = errors.New("missing credential")

// ExhaustedError is returned by Generate when every backend in the
// fallback order has failed. It carries the last underlying failure.
type ExhaustedError struct {
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all providers failed, last error: %v", e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Config configures a Client. It is an explicit structure so the client
// never reads the process environment itself; internal/config populates
// it from env vars for the CLI.
type Config struct {
	// Primary is the provider tried first. Defaults to "piapi".
	Primary string

	// Order is the fallback order as raw identifiers. The primary is
	// always moved to the front; duplicates of it are removed.
	// Identifiers that don't name a backend in Backends are preserved
	// in order but skipped at call time.
	Order []string

	// Backends maps canonical provider names to their adapters.
	Backends map[string]Backend

	// Logf receives one diagnostic line per failed backend attempt.
	// Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// DefaultOrder is the canonical fallback order when none is configured.
var DefaultOrder = []string{"piapi", "groq", "openai", "deepseek"}

// entry is one slot in the resolved fallback order. A nil backend marks
// an identifier that named no known provider; it stays in the order but
// is never dispatched.
type entry struct {
	name    string
	backend Backend
}

// Client generates text by trying backends in a fixed fallback order.
// It is not safe for concurrent use; each process works one request at
// a time.
type Client struct {
	entries []entry
	active  string
	logf    func(format string, args ...any)
}

// New builds a Client from cfg. Construction never fails: unknown
// provider names are resolved to skip markers rather than rejected.
func New(cfg Config) *Client {
	primary := strings.ToLower(strings.TrimSpace(cfg.Primary))
	if primary == "" {
		primary = "piapi"
	}

	order := cfg.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	names := make([]string, 0, len(order)+1)
	names = append(names, primary)
	for _, raw := range order {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || name == primary {
			continue
		}
		names = append(names, name)
	}

	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}

	c := &Client{logf: logf}
	for _, name := range names {
		c.entries = append(c.entries, entry{name: name, backend: cfg.Backends[name]})
	}
	return c
}

// Order returns the effective fallback order, including skipped entries.
func (c *Client) Order() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// ActiveProvider returns the name of the backend that satisfied the most
// recent successful Generate call, or "" if none has succeeded yet.
func (c *Client) ActiveProvider() string { return c.active }

// Generate produces one generated text for req, trying backends in order
// until one succeeds. Unset Temperature and MaxTokens default to 0.3 and
// 1600. Per-backend failures are logged and swallowed; only total
// exhaustion is returned, as an *ExhaustedError naming the last failure.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	var lastErr error
	for _, e := range c.entries {
		if e.backend == nil {
			continue
		}

		out, err := e.backend.Complete(ctx, req)
		if err != nil {
			lastErr = err
			c.logf("[llm] provider %q failed: %v", e.name, err)
			continue
		}

		c.active = e.name
		return out, nil
	}

	return "", &ExhaustedError{Last: lastErr}
}
