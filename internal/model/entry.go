package model

import "time"

// LogEntry represents a single parsed log line.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"` // second resolution
	Level     string    `json:"level"`     // free-form: INFO, DEBUG, WARN, ERROR, ...
	Message   string    `json:"message"`   // message text
}

// Equal reports whether two entries carry the same timestamp, level and
// message. Timestamps are compared with time.Time.Equal, not ==.
func (e LogEntry) Equal(other LogEntry) bool {
	return e.Timestamp.Equal(other.Timestamp) && e.Level == other.Level && e.Message == other.Message
}
