package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logsift/logsift/internal/aggregator"
	"github.com/logsift/logsift/internal/hub"
	"github.com/logsift/logsift/internal/model"
	"github.com/logsift/logsift/internal/server"
	"github.com/logsift/logsift/internal/tailer"
	"github.com/logsift/logsift/internal/watcher"
)

var servePort string

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Follow log files for new entries",
	Long: `Follow one or more log files (or glob patterns) and stream newly
appended entries to the terminal. Lines that fail to parse are reported,
never silently dropped. With --serve, also runs a live stats dashboard.

Examples:
  logsift watch /var/log/app.log
  logsift watch "/var/log/**/*.log"
  logsift watch app.log --serve 8844 --level error`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&servePort, "serve", "", "serve the dashboard on this port (empty: no dashboard)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nlogsift shutting down...")
		cancel()
	}()

	// --- Initialize watcher ---
	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watchedPaths := w.Paths()
	fmt.Fprintf(os.Stderr, "logsift watching %d file(s):\n", len(watchedPaths))
	for _, p := range watchedPaths {
		fmt.Fprintf(os.Stderr, "  %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	// --- Initialize checkpoint and tailer ---
	ckpt, err := tailer.NewCheckpoint(viper.GetString("checkpoint_file"))
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	t := tailer.New(w, ckpt)

	// --- Hub: parse and fan out ---
	h := hub.New(t.Lines())
	entries := h.Subscribe()

	// --- Optional dashboard ---
	if servePort != "" {
		agg := aggregator.New(h.Subscribe(), h.Malformed, h.Dropped, func() int { return len(w.Paths()) })
		go agg.Start(ctx)

		srv := server.New(h, agg, servePort)
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("dashboard server stopped: %v", err)
			}
		}()
		fmt.Fprintf(os.Stderr, "dashboard: http://localhost:%s\n\n", servePort)
	}

	// --- Build level filter set ---
	levelSet := make(map[string]bool)
	if levelFilter != "" {
		for _, l := range strings.Split(levelFilter, ",") {
			levelSet[strings.ToUpper(strings.TrimSpace(l))] = true
		}
	}

	// --- Start pipeline ---
	go w.Start(ctx)
	go t.Start(ctx)
	go h.Start(ctx)

	// --- Render output ---
	renderer := newRenderer()
	for entry := range entries {
		if shouldShow(entry, levelSet) {
			if err := renderer.Render(entry); err != nil {
				log.Printf("render error: %v", err)
			}
		}
	}

	return nil
}

// shouldShow returns true if the entry passes the level filter.
func shouldShow(entry model.LogEntry, levelSet map[string]bool) bool {
	if len(levelSet) == 0 {
		return true // no filter = show all
	}
	return levelSet[entry.Level]
}
