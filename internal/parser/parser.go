package parser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/logsift/logsift/internal/model"
)

// Layout is the fixed timestamp layout used on the wire:
// 4-digit year, zero-padded fields, second resolution.
const Layout = "2006-01-02 15:04:05"

// delimRe matches the two structural markers of the line format:
// the " [" opening the level tag and the "] " closing it.
var delimRe = regexp.MustCompile(` \[|\] `)

// ParseError reports a line that does not conform to the
// "<timestamp> [<level>] <message>" format. It carries the offending
// line so callers can surface it in diagnostics.
type ParseError struct {
	Line   string // full offending line
	Reason string
	Err    error // underlying cause (timestamp parse failure), may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid log line %q: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid log line %q: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts one raw line in the format
//
//	<timestamp> [<level>] <message>
//
// into a LogEntry. The split must yield exactly three parts; a line missing
// either bracket marker, or whose message itself contains " [" or "] "
// (delimiter collision), fails with a *ParseError. The format performs no
// escaping, so such messages are rejected rather than mis-parsed.
func Parse(line string) (model.LogEntry, error) {
	parts := delimRe.Split(line, -1)
	if len(parts) != 3 {
		return model.LogEntry{}, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("expected 3 parts, got %d", len(parts)),
		}
	}

	ts, err := time.Parse(Layout, parts[0])
	if err != nil {
		return model.LogEntry{}, &ParseError{
			Line:   line,
			Reason: "bad timestamp",
			Err:    err,
		}
	}

	return model.LogEntry{
		Timestamp: ts,
		Level:     parts[1],
		Message:   parts[2],
	}, nil
}

// Format renders an entry back to its wire form. It is the inverse of Parse
// for entries whose message contains neither " [" nor "] ".
// No escaping is performed.
func Format(entry model.LogEntry) string {
	return fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format(Layout), entry.Level, entry.Message)
}
