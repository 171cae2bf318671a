package hub

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/logsift/logsift/internal/model"
	"github.com/logsift/logsift/internal/parser"
)

const subscriberBuffer = 1024

// Hub receives raw lines, parses them with the strict line format, and
// broadcasts valid entries to all subscribers. Lines that fail to parse are
// never forwarded silently: each is counted and logged with its content.
type Hub struct {
	input       <-chan model.RawLine
	mu          sync.RWMutex
	subscribers []chan model.LogEntry
	dropped     atomic.Int64
	malformed   atomic.Int64
}

// New creates a Hub that reads from the input channel.
func New(input <-chan model.RawLine) *Hub {
	return &Hub{input: input}
}

// Subscribe returns a buffered channel that will receive parsed log entries.
// Multiple consumers can subscribe; each gets a copy of every entry.
func (h *Hub) Subscribe() <-chan model.LogEntry {
	ch := make(chan model.LogEntry, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Dropped returns the total number of entries dropped due to slow consumers.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Malformed returns the total number of lines rejected by the parser.
func (h *Hub) Malformed() int64 { return h.malformed.Load() }

// Start begins reading from the input channel, parsing, and broadcasting.
// Blocks until the context is cancelled or the input channel is closed.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-h.input:
			if !ok {
				return
			}
			entry, err := parser.Parse(raw.Text)
			if err != nil {
				h.malformed.Add(1)
				log.Printf("hub: rejected line from %s: %v", raw.Source, err)
				continue
			}
			h.broadcast(entry)
		}
	}
}

// broadcast sends an entry to all subscribers.
// If a subscriber's channel is full, the entry is dropped for that subscriber.
func (h *Hub) broadcast(entry model.LogEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- entry:
		default:
			h.dropped.Add(1)
		}
	}
}

// closeAll closes all subscriber channels.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
