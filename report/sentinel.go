package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AlreadySent reports whether the sentinel file records today's date,
// meaning a report was already delivered today. A missing or unreadable
// sentinel counts as not sent.
func AlreadySent(path string, now time.Time) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(raw)) == now.UTC().Format("2006-01-02")
}

// MarkSent writes today's date to the sentinel file. Called only after
// a successful delivery.
func MarkSent(path string, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sentinel: %w", err)
	}
	if err := os.WriteFile(path, []byte(now.UTC().Format("2006-01-02")), 0o644); err != nil {
		return fmt.Errorf("sentinel: %w", err)
	}
	return nil
}
