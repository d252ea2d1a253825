package delivery_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/curvewatch/curvewatch/delivery"
)

func TestChunksShortText(t *testing.T) {
	parts := delivery.Chunks("hello", delivery.MaxChunk)
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	if parts[0] != "hello" {
		t.Errorf("short text must not get a part prefix: %q", parts[0])
	}
}

func TestChunksLongText(t *testing.T) {
	text := strings.Repeat("a", 25)
	parts := delivery.Chunks(text, 10)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}

	var rejoined strings.Builder
	for i, p := range parts {
		wantPrefix := []string{"(part 1)\n", "(part 2)\n", "(part 3)\n"}[i]
		if !strings.HasPrefix(p, wantPrefix) {
			t.Errorf("part %d prefix = %q, want %q", i+1, p, wantPrefix)
		}
		rejoined.WriteString(strings.TrimPrefix(p, wantPrefix))
	}
	if rejoined.String() != text {
		t.Errorf("rejoined parts do not reproduce the text: %q", rejoined.String())
	}
	if got := len(parts[2]) - len("(part 3)\n"); got != 5 {
		t.Errorf("last part payload = %d chars, want 5", got)
	}
}

func TestChunksMultibyte(t *testing.T) {
	// The é lands exactly on a chunk boundary; a byte-offset split
	// would tear it in half and corrupt both adjacent parts.
	text := "aaaaébbbbb§cc"
	parts := delivery.Chunks(text, 5)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}

	var rejoined strings.Builder
	for i, p := range parts {
		if !utf8.ValidString(p) {
			t.Errorf("part %d is not valid UTF-8: %q", i+1, p)
		}
		prefix := []string{"(part 1)\n", "(part 2)\n", "(part 3)\n"}[i]
		if !strings.HasPrefix(p, prefix) {
			t.Errorf("part %d prefix: %q", i+1, p)
		}
		rejoined.WriteString(strings.TrimPrefix(p, prefix))
	}
	if rejoined.String() != text {
		t.Errorf("rejoined parts = %q, want %q", rejoined.String(), text)
	}
	if got := strings.TrimPrefix(parts[0], "(part 1)\n"); got != "aaaaé" {
		t.Errorf("first part payload = %q, want %q", got, "aaaaé")
	}
}

func TestChunksDefaultBudget(t *testing.T) {
	text := strings.Repeat("b", delivery.MaxChunk+1)
	parts := delivery.Chunks(text, 0)
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2 with default budget", len(parts))
	}
}
