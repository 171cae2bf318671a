package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/logsift/logsift/internal/model"
)

func TestParseValidLine(t *testing.T) {
	entry, err := Parse("2024-01-01 10:00:00 [INFO] started")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !entry.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, entry.Timestamp)
	}
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %q", entry.Level)
	}
	if entry.Message != "started" {
		t.Errorf("expected message 'started', got %q", entry.Message)
	}
}

func TestParseMalformedLine(t *testing.T) {
	_, err := Parse("not-a-log-line")
	if err == nil {
		t.Fatal("expected error for malformed line")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Line != "not-a-log-line" {
		t.Errorf("expected offending line in error, got %q", perr.Line)
	}
}

func TestParseBadTimestamp(t *testing.T) {
	_, err := Parse("yesterday-ish [INFO] started")
	if err == nil {
		t.Fatal("expected error for bad timestamp")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Err == nil {
		t.Error("expected wrapped timestamp parse error")
	}
}

func TestParseDelimiterCollision(t *testing.T) {
	// A message containing the delimiter pattern produces extra parts
	// and must be rejected, not mis-parsed.
	_, err := Parse("2024-01-01 10:00:00 [INFO] array [0] is empty")
	if err == nil {
		t.Fatal("expected error for delimiter collision in message")
	}
}

func TestParseEmptyMessage(t *testing.T) {
	entry, err := Parse("2024-01-01 10:00:00 [WARN] ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Message != "" {
		t.Errorf("expected empty message, got %q", entry.Message)
	}
}

func TestFormat(t *testing.T) {
	entry := model.LogEntry{
		Timestamp: time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC),
		Level:     "ERROR",
		Message:   "disk full",
	}

	got := Format(entry)
	if got != "2024-01-01 09:05:00 [ERROR] disk full" {
		t.Errorf("unexpected format output: %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := []model.LogEntry{
		{Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Level: "INFO", Message: "boot"},
		{Timestamp: time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC), Level: "custom-level", Message: "anything goes"},
		{Timestamp: time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), Level: "WARN", Message: ""},
	}

	for _, want := range entries {
		got, err := Parse(Format(want))
		if err != nil {
			t.Fatalf("round-trip parse failed for %+v: %v", want, err)
		}
		if !got.Equal(want) {
			t.Errorf("round-trip mismatch: want %+v, got %+v", want, got)
		}
	}
}

func TestFormatSingleDelimiterPair(t *testing.T) {
	entry := model.LogEntry{
		Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Level:     "DEBUG",
		Message:   "plain message",
	}

	line := Format(entry)
	if strings.Count(line, " [") != 1 || strings.Count(line, "] ") != 1 {
		t.Errorf("expected exactly one delimiter pair in %q", line)
	}
}
