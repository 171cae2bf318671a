package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const defaultBufSize = 64 * 1024 // 64KB

// WriteLines writes the lines to w in order, one per line, through a
// buffered writer.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriterSize(w, defaultBufSize)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the lines to a fresh file at path, creating or
// truncating it. The file handle is scoped to this call: it is closed on
// both success and failure.
func WriteFile(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := WriteLines(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
