package scan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/internal/parser"
)

const sample = `2024-01-01 09:00:00 [INFO] boot
2024-01-01 09:05:00 [ERROR] disk full
2024-01-01 09:10:00 [ERROR] retry failed`

func TestReaderAllValid(t *testing.T) {
	res, err := Reader(strings.NewReader(sample), "app.log", FailFast)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, "boot", res.Entries[0].Message)
	assert.Equal(t, "retry failed", res.Entries[2].Message)
}

func TestReaderFailFast(t *testing.T) {
	input := sample + "\ngarbage line\n2024-01-01 09:15:00 [INFO] never reached"

	res, err := Reader(strings.NewReader(input), "app.log", FailFast)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.log:4")
	assert.Contains(t, err.Error(), "garbage line")

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))

	// Partial progress is still reported.
	assert.Len(t, res.Entries, 3)
	assert.Equal(t, 4, res.Total)
}

func TestReaderSkipMalformed(t *testing.T) {
	input := "garbage\n" + sample + "\nmore garbage"

	res, err := Reader(strings.NewReader(input), "app.log", SkipMalformed)

	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Entries, 3)
	assert.Empty(t, res.Errs)
}

func TestReaderCollect(t *testing.T) {
	input := "garbage\n" + sample + "\n2024-13-40 99:00:00 [INFO] bad date"

	res, err := Reader(strings.NewReader(input), "", Collect)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errs, 2)
	assert.Contains(t, res.Errs[0].Error(), "<input>:1")
	assert.Contains(t, res.Errs[1].Error(), "<input>:5")
	assert.Len(t, res.Entries, 3)
}

func TestReaderPreservesOrder(t *testing.T) {
	res, err := Reader(strings.NewReader(sample), "app.log", FailFast)

	require.NoError(t, err)
	for i := 1; i < len(res.Entries); i++ {
		assert.False(t, res.Entries[i].Timestamp.Before(res.Entries[i-1].Timestamp))
	}
}

func TestLines(t *testing.T) {
	lines := []string{
		"2024-01-01 09:00:00 [INFO] boot",
		"broken",
		"2024-01-01 09:05:00 [WARN] low disk",
	}

	res, err := Lines(lines, "mem", SkipMalformed)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "low disk", res.Entries[1].Message)
}

func TestLinesFailFast(t *testing.T) {
	lines := []string{"not-a-log-line"}

	_, err := Lines(lines, "mem", FailFast)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mem:1")
}

func TestReaderEmptyInput(t *testing.T) {
	res, err := Reader(strings.NewReader(""), "empty.log", FailFast)

	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Entries)
}
