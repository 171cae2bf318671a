package tailer

import (
	"encoding/json"
	"os"
	"sync"
)

// fileState is the persisted read position for one file.
type fileState struct {
	Offset int64 `json:"offset"`
	Line   int   `json:"line"` // 1-based number of the last line read
}

// checkpointData is the on-disk JSON structure.
type checkpointData struct {
	Files map[string]fileState `json:"files"`
}

// Checkpoint persists file read positions so tailing can resume after a
// restart without re-emitting already-seen lines.
type Checkpoint struct {
	mu   sync.RWMutex
	path string
	data checkpointData
}

// NewCheckpoint creates or loads a checkpoint file at the given path.
func NewCheckpoint(path string) (*Checkpoint, error) {
	c := &Checkpoint{
		path: path,
		data: checkpointData{Files: make(map[string]fileState)},
	}

	// A missing or unreadable checkpoint just means a fresh start.
	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &c.data)
	}
	if c.data.Files == nil {
		c.data.Files = make(map[string]fileState)
	}

	return c, nil
}

// Get returns the saved position for a file path.
func (c *Checkpoint) Get(path string) (offset int64, line int, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.data.Files[path]
	return st.Offset, st.Line, ok
}

// Set records the current position for a file path.
func (c *Checkpoint) Set(path string, offset int64, line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Files[path] = fileState{Offset: offset, Line: line}
}

// Save writes the checkpoint data to disk atomically.
func (c *Checkpoint) Save() error {
	c.mu.RLock()
	raw, err := json.MarshalIndent(c.data, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	// Write to a temp file first, then rename.
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
