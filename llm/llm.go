// Package llm defines the text-generation client interface for curvewatch.
// Backends provide the actual transport to a specific provider; the Client
// in this package tries them in a configured fallback order.
package llm

import "context"

// Default generation parameters, applied when a Request leaves them unset.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1600
)

// Request describes one text-generation call. It is sent to a backend as a
// two-message conversation: a system message followed by a user message.
// Temperature is a pointer so that an explicit 0 is distinguishable from
// unset; use Float to build one.
type Request struct {
	System      string
	User        string
	Temperature *float64
	MaxTokens   int
}

// Float returns a pointer to v, for setting Request.Temperature.
func Float(v float64) *float64 { return &v }

// Backend is a minimal interface for one text-generation provider.
// Implementations perform a single stateless request/response round trip.
type Backend interface {
	// Name returns the canonical provider identifier (e.g. "piapi", "groq").
	Name() string

	// Complete sends the request and returns the generated text.
	// A missing credential must fail immediately, before any network call.
	Complete(ctx context.Context, req Request) (string, error)
}

// withDefaults fills in unset generation parameters.
func (r Request) withDefaults() Request {
	if r.Temperature == nil {
		r.Temperature = Float(DefaultTemperature)
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}
