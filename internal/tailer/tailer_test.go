package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logsift/logsift/internal/watcher"
)

func TestTailNewLines(t *testing.T) {
	// Create a temp log file with some pre-existing content.
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	if err := os.WriteFile(logPath, []byte("2024-01-01 09:00:00 [INFO] existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := watcher.New([]string{logPath})
	if err != nil {
		t.Fatal(err)
	}

	ckpt, err := NewCheckpoint(filepath.Join(dir, ".logsift-state.json"))
	if err != nil {
		t.Fatal(err)
	}

	tail := New(w, ckpt)

	ctx, cancel := context.WithCancel(context.Background())

	go w.Start(ctx)
	go tail.Start(ctx)

	// Give the tailer a moment to initialize and seek to end.
	time.Sleep(300 * time.Millisecond)

	// Append a new line — this should be picked up.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("2024-01-01 09:05:00 [ERROR] disk full\n")
	f.Close()

	select {
	case raw := <-tail.Lines():
		if raw.Text != "2024-01-01 09:05:00 [ERROR] disk full" {
			t.Errorf("unexpected line: %q", raw.Text)
		}
		if raw.Source != logPath {
			t.Errorf("expected source %q, got %q", logPath, raw.Source)
		}
		if raw.Num == 0 {
			t.Error("expected a line number, got 0")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for log line")
	}

	// Cancel and allow goroutines to stop before TempDir cleanup.
	cancel()
	time.Sleep(200 * time.Millisecond)
}

func TestCheckpointSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.json")

	c1, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	c1.Set("/var/log/app.log", 42, 3)
	c1.Set("/var/log/err.log", 1024, 17)
	if err := c1.Save(); err != nil {
		t.Fatal(err)
	}

	// Load checkpoint in a new instance.
	c2, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}

	off, line, ok := c2.Get("/var/log/app.log")
	if !ok || off != 42 || line != 3 {
		t.Errorf("expected offset 42 line 3, got %d/%d (found=%v)", off, line, ok)
	}

	off, line, ok = c2.Get("/var/log/err.log")
	if !ok || off != 1024 || line != 17 {
		t.Errorf("expected offset 1024 line 17, got %d/%d (found=%v)", off, line, ok)
	}

	_, _, ok = c2.Get("/nonexistent")
	if ok {
		t.Error("expected missing key to return false")
	}
}
