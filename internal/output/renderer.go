package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/logsift/logsift/internal/model"
	"github.com/logsift/logsift/internal/parser"
)

// Renderer writes LogEntry values to an output stream.
type Renderer interface {
	Render(entry model.LogEntry) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleCount = lipgloss.NewStyle().Bold(true)
)

// TextRenderer prints entries with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(entry model.LogEntry) error {
	tag := styleLevelTag(entry.Level)
	ts := entry.Timestamp.Format(parser.Layout)

	_, err := fmt.Fprintf(r.w, "%s %s %s\n", ts, tag, entry.Message)
	return err
}

func styleLevelTag(level string) string {
	padded := fmt.Sprintf("%-5s", level)
	switch level {
	case "DEBUG":
		return styleDebug.Render(padded)
	case "WARN":
		return styleWarn.Render(padded)
	case "ERROR":
		return styleError.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each log entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.LogEntry) error {
	return r.enc.Encode(entry)
}

// ---------------------------------------------------------------------------
// Level summary
// ---------------------------------------------------------------------------

// Summary renders per-level counts as an aligned, colorized block, most
// frequent level first (ties broken alphabetically).
func Summary(counts map[string]int) string {
	levels := make([]string, 0, len(counts))
	width := 0
	for level := range counts {
		levels = append(levels, level)
		if len(level) > width {
			width = len(level)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		if counts[levels[i]] != counts[levels[j]] {
			return counts[levels[i]] > counts[levels[j]]
		}
		return levels[i] < levels[j]
	})

	out := ""
	for _, level := range levels {
		tag := styleLevelTag(fmt.Sprintf("%-*s", width, level))
		out += fmt.Sprintf("  %s %s\n", tag, styleCount.Render(fmt.Sprintf("%d", counts[level])))
	}
	return out
}
