// Package delivery defines the Channel interface for report output
// transports (Telegram, Slack, GitHub issues).
package delivery

import (
	"context"
	"fmt"
)

// Message is one report ready for delivery. HTML carries Telegram-style
// markup; Text is the plain fallback used when a transport cannot take
// HTML or the message must be split.
type Message struct {
	Title string
	HTML  string
	Text  string
}

// Channel represents an output transport for generated reports.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// MaxChunk is the per-message character budget, kept under Telegram's
// official 4096 limit for headroom.
const MaxChunk = 4000

// Chunks splits text into pieces of at most max characters, cutting on
// rune boundaries so multibyte characters are never torn apart. When
// the text needs more than one piece, each gets a "(part N)" prefix.
func Chunks(text string, max int) []string {
	if max <= 0 {
		max = MaxChunk
	}
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}

	var parts []string
	for start := 0; start < len(runes); start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	for i := range parts {
		parts[i] = fmt.Sprintf("(part %d)\n%s", i+1, parts[i])
	}
	return parts
}
