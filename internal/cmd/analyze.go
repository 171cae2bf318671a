package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsift/logsift/internal/analyzer"
	"github.com/logsift/logsift/internal/model"
	"github.com/logsift/logsift/internal/output"
	"github.com/logsift/logsift/internal/scan"
)

var (
	analyzeSince  time.Duration
	analyzeOnErr  string
	analyzeExport string
	exportLevel   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze log files in one pass",
	Long: `Parse one or more log files, count entries per level, list recent
errors, and optionally export a filtered subset to a fresh file.

A malformed line aborts the run by default; use --on-error to skip bad
lines or to collect and report them all at the end.

Examples:
  logsift analyze app.log
  logsift analyze app.log server.log --since 30m
  logsift analyze app.log --on-error collect --export errors-only.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeSince, "since", time.Hour, "recent-error window")
	analyzeCmd.Flags().StringVar(&analyzeOnErr, "on-error", "fail", "malformed line handling: fail, skip, collect")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "write entries matching --filter-level to this file")
	analyzeCmd.Flags().StringVar(&exportLevel, "filter-level", "ERROR", "level to keep when exporting")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, err := parseErrorMode(analyzeOnErr)
	if err != nil {
		return err
	}

	var entries []model.LogEntry
	var total, skipped int
	var collected []error

	for _, path := range args {
		res, err := readFile(path, mode)
		total += res.Total
		skipped += res.Skipped
		collected = append(collected, res.Errs...)
		if err != nil {
			return err
		}
		entries = append(entries, res.Entries...)
	}

	fmt.Printf("Parsed %d entries from %d file(s)", len(entries), len(args))
	if skipped > 0 {
		fmt.Printf(" (%d malformed line(s) skipped)", skipped)
	}
	fmt.Println()

	for _, err := range collected {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}

	// Per-level counts.
	counts := analyzer.CountByLevel(entries)
	fmt.Println("\nEntries by level:")
	fmt.Print(output.Summary(counts))

	// Recent errors.
	recent := analyzer.RecentErrors(entries, time.Now(), analyzeSince)
	fmt.Printf("\nErrors in the last %s: %d\n", analyzeSince, len(recent))
	renderer := newRenderer()
	for _, e := range recent {
		if err := renderer.Render(e); err != nil {
			return err
		}
	}

	// Filtered export.
	if analyzeExport != "" {
		lines := analyzer.ExportFiltered(entries, analyzer.ByLevel(exportLevel))
		if err := output.WriteFile(analyzeExport, lines); err != nil {
			return err
		}
		fmt.Printf("\nExported %d %s entr%s to %s\n",
			len(lines), exportLevel, plural(len(lines), "y", "ies"), analyzeExport)
	}

	return nil
}

// readFile scans one file with a scoped handle: opened here, closed before
// returning, success or not.
func readFile(path string, mode scan.ErrorMode) (scan.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return scan.Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return scan.Reader(f, path, mode)
}

func parseErrorMode(s string) (scan.ErrorMode, error) {
	switch strings.ToLower(s) {
	case "fail":
		return scan.FailFast, nil
	case "skip":
		return scan.SkipMalformed, nil
	case "collect":
		return scan.Collect, nil
	default:
		return 0, fmt.Errorf("unknown --on-error mode %q (want fail, skip, or collect)", s)
	}
}

func newRenderer() output.Renderer {
	if strings.ToLower(outputFmt) == "json" {
		return output.NewJSONRenderer(os.Stdout)
	}
	return output.NewTextRenderer(os.Stdout)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
