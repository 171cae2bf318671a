package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event represents a file change detected by the watcher.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors log files for changes using OS-level notifications.
// Glob patterns (including recursive ** forms) are expanded once at startup.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
}

// New creates a Watcher for the given glob patterns. It fails when no
// pattern matches an existing file, since there would be nothing to follow.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("warning: cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	if len(w.paths) == 0 {
		fsw.Close()
		return nil, fmt.Errorf("no files matched the given patterns: %v", patterns)
	}

	return w, nil
}

// Start begins listening for file events. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Forward write, create, remove and rename; Chmod is noise.
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.Events <- Event{Path: ev.Name, Op: ev.Op}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// Paths returns the list of files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// ReWatch adds a path back to the watcher (used after rotation).
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}
