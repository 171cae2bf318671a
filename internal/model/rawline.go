package model

// RawLine is one unparsed line of text together with its provenance,
// so that malformed-line diagnostics can identify where it came from.
type RawLine struct {
	Text   string // line content, without trailing newline
	Source string // originating file path, or "" for in-memory input
	Num    int    // 1-based line number within the source, 0 if unknown
}
