// Package analyzer provides read-only queries over a batch of parsed log
// entries. Every function is a pure, order-preserving transformation; inputs
// are assumed to be already-valid entries and are never re-validated.
package analyzer

import (
	"time"

	"github.com/logsift/logsift/internal/model"
	"github.com/logsift/logsift/internal/parser"
)

// LevelError is the level string matched by RecentErrors and LatestError.
// The match is case-sensitive.
const LevelError = "ERROR"

// CountByLevel groups entries by their level string and returns the count
// per distinct level observed. Levels with zero occurrences never appear
// as keys.
func CountByLevel(entries []model.LogEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Level]++
	}
	return counts
}

// RecentErrors returns the entries whose level is exactly "ERROR" and whose
// timestamp is strictly after now minus window, in their original order.
// A zero or negative window excludes every entry at or before now.
func RecentErrors(entries []model.LogEntry, now time.Time, window time.Duration) []model.LogEntry {
	cutoff := now.Add(-window)

	var recent []model.LogEntry
	for _, e := range entries {
		if e.Level == LevelError && e.Timestamp.After(cutoff) {
			recent = append(recent, e)
		}
	}
	return recent
}

// LatestError returns the last entry with level "ERROR", or ok=false when
// the batch contains none. Absence is not an error condition.
func LatestError(entries []model.LogEntry) (model.LogEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Level == LevelError {
			return entries[i], true
		}
	}
	return model.LogEntry{}, false
}

// ExportFiltered applies pred to each entry in order and serializes the
// survivors back to their wire form. Writing the lines anywhere is the
// caller's responsibility.
func ExportFiltered(entries []model.LogEntry, pred func(model.LogEntry) bool) []string {
	var lines []string
	for _, e := range entries {
		if pred(e) {
			lines = append(lines, parser.Format(e))
		}
	}
	return lines
}

// ByLevel returns a predicate matching entries with exactly the given level.
func ByLevel(level string) func(model.LogEntry) bool {
	return func(e model.LogEntry) bool { return e.Level == level }
}
