package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/logsift/logsift/internal/analyzer"
	"github.com/logsift/logsift/internal/model"
)

// errRingSize caps how many ERROR entries are retained for recent-error queries.
const errRingSize = 256

// epsWindow is the sliding window used for the events-per-second estimate.
const epsWindow = 5 * time.Second

// Stats holds a point-in-time snapshot of aggregated metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	TotalEntries int64            `json:"total_entries"`
	EPS          float64          `json:"eps"`
	LevelCounts  map[string]int64 `json:"level_counts"`
	Malformed    int64            `json:"malformed_lines"`
	DroppedLogs  int64            `json:"dropped_logs"`
	FilesWatched int              `json:"files_watched"`
}

// Aggregator subscribes to the Hub and maintains running metrics: per-level
// counts, an events-per-second estimate, and a capped ring of the most
// recent ERROR entries.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	total       int64
	levelCounts map[string]int64
	window      []time.Time
	errRing     []model.LogEntry
	malformed   func() int64
	dropped     func() int64
	fileCount   func() int
	entries     <-chan model.LogEntry

	registry     *prometheus.Registry
	entriesTotal *prometheus.CounterVec
}

// New creates an Aggregator that reads from the given Hub subscriber channel.
// malformedFn, droppedFn and fileCountFn provide live values from the Hub and
// Watcher. Prometheus collectors are registered on a per-instance registry,
// exposed via Registry.
func New(entries <-chan model.LogEntry, malformedFn, droppedFn func() int64, fileCountFn func() int) *Aggregator {
	reg := prometheus.NewRegistry()
	entriesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logsift_entries_total",
		Help: "Parsed log entries observed, by level.",
	}, []string{"level"})
	reg.MustRegister(entriesTotal)

	return &Aggregator{
		startTime:    time.Now(),
		levelCounts:  make(map[string]int64),
		malformed:    malformedFn,
		dropped:      droppedFn,
		fileCount:    fileCountFn,
		entries:      entries,
		registry:     reg,
		entriesTotal: entriesTotal,
	}
}

// Registry returns the Prometheus registry holding this aggregator's collectors.
func (a *Aggregator) Registry() *prometheus.Registry {
	return a.registry
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[string]int64, len(a.levelCounts))
	for k, v := range a.levelCounts {
		counts[k] = v
	}

	now := time.Now()
	cutoff := now.Add(-epsWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}
	eps := float64(recent) / epsWindow.Seconds()

	return Stats{
		Uptime:       time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEntries: a.total,
		EPS:          eps,
		LevelCounts:  counts,
		Malformed:    a.malformed(),
		DroppedLogs:  a.dropped(),
		FilesWatched: a.fileCount(),
	}
}

// RecentErrors returns retained ERROR entries with timestamps strictly after
// now minus window, oldest first. At most the last errRingSize errors are
// retained, so older errors age out of this view.
func (a *Aggregator) RecentErrors(now time.Time, window time.Duration) []model.LogEntry {
	a.mu.RLock()
	ring := make([]model.LogEntry, len(a.errRing))
	copy(ring, a.errRing)
	a.mu.RUnlock()

	return analyzer.RecentErrors(ring, now, window)
}

// Start begins consuming entries and updating metrics. Blocks until the
// context is cancelled or the input channel is closed.
func (a *Aggregator) Start(ctx context.Context) {
	// Periodically prune the sliding window.
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-a.entries:
			if !ok {
				return
			}
			a.record(entry)
		case <-ticker.C:
			a.prune()
		}
	}
}

// record adds an entry to the metrics.
func (a *Aggregator) record(entry model.LogEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.levelCounts[entry.Level]++
	a.window = append(a.window, time.Now())
	a.entriesTotal.WithLabelValues(entry.Level).Inc()

	if entry.Level == analyzer.LevelError {
		a.errRing = append(a.errRing, entry)
		if len(a.errRing) > errRingSize {
			a.errRing = a.errRing[len(a.errRing)-errRingSize:]
		}
	}
}

// prune removes timestamps outside the EPS window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-epsWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
