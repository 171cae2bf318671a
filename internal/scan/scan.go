// Package scan turns a stream of text lines into a batch of parsed log
// entries. It never opens or closes the underlying source; callers own the
// reader's lifecycle.
package scan

import (
	"bufio"
	"fmt"
	"io"

	"github.com/logsift/logsift/internal/model"
	"github.com/logsift/logsift/internal/parser"
)

// ErrorMode selects what happens when a line fails to parse.
type ErrorMode int

const (
	// FailFast aborts the batch on the first malformed line.
	FailFast ErrorMode = iota
	// SkipMalformed drops malformed lines, counting them in Result.Skipped.
	SkipMalformed
	// Collect drops malformed lines and accumulates their errors in Result.Errs.
	Collect
)

// Result holds the outcome of scanning one source.
type Result struct {
	Entries []model.LogEntry
	Total   int     // lines read, including malformed ones
	Skipped int     // malformed lines dropped (SkipMalformed and Collect modes)
	Errs    []error // per-line errors (Collect mode only)
}

// Reader scans lines from r, parsing each with the strict line format.
// Source is used only for diagnostics. In FailFast mode the returned error
// identifies the offending line and its number; the partial Result is still
// returned so callers can report progress.
func Reader(r io.Reader, source string, mode ErrorMode) (Result, error) {
	var res Result

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		res.Total++

		entry, err := parser.Parse(sc.Text())
		if err != nil {
			err = lineErr(source, res.Total, err)
			switch mode {
			case FailFast:
				return res, err
			case Collect:
				res.Errs = append(res.Errs, err)
			}
			res.Skipped++
			continue
		}

		res.Entries = append(res.Entries, entry)
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading %s: %w", sourceName(source), err)
	}

	return res, nil
}

// Lines parses an already-materialized slice of lines with the same error
// modes as Reader.
func Lines(lines []string, source string, mode ErrorMode) (Result, error) {
	var res Result

	for _, line := range lines {
		res.Total++

		entry, err := parser.Parse(line)
		if err != nil {
			err = lineErr(source, res.Total, err)
			switch mode {
			case FailFast:
				return res, err
			case Collect:
				res.Errs = append(res.Errs, err)
			}
			res.Skipped++
			continue
		}

		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

func lineErr(source string, num int, err error) error {
	return fmt.Errorf("%s:%d: %w", sourceName(source), num, err)
}

func sourceName(source string) string {
	if source == "" {
		return "<input>"
	}
	return source
}
