package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// NextNumber increments and returns the counter stored under key in a
// JSON file mapping keys to integers. A missing or corrupt file starts
// the counter over at 1. The read-increment-write is not locked; the
// commands run one at a time under cron.
func NextNumber(path, key string) (int, error) {
	counters := map[string]int{}

	if raw, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(raw, &counters); err != nil {
			counters = map[string]int{}
		}
	}

	counters[key]++

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("counter: %w", err)
	}
	out, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return 0, fmt.Errorf("counter: %w", err)
	}
	return counters[key], nil
}
