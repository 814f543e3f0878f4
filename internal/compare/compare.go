// Package compare implements the Output Comparator (C3): a line-based diff
// of two whitespace-trimmed strings, reported as a tagged line sequence
// plus a has-diff boolean (spec.md §4.3).
package compare

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Tag classifies a single line of the comparison report.
type Tag string

const (
	TagExpected Tag = "EXPECTED"
	TagActual   Tag = "ACTUAL"
	TagMatch    Tag = "MATCH"
)

// Line is one tagged line of the report.
type Line struct {
	Tag     Tag
	Content string
}

// Report is the comparator's output: a tagged line sequence plus whether
// expected and actual differ at all.
type Report struct {
	HasDiff bool
	Lines   []Line
}

// Equal reports whether expected and actual match once each line is
// trimmed of leading/trailing whitespace. There is no tolerant numeric
// comparison (spec.md §4.3).
func Equal(expected, actual string) bool {
	return trimLines(expected) == trimLines(actual)
}

// Compare produces the full tagged-line report for expected vs. actual.
func Compare(expected, actual string) Report {
	expected = trimLines(expected)
	actual = trimLines(actual)

	if expected == actual {
		lines := make([]Line, 0)
		for _, l := range splitLines(expected) {
			lines = append(lines, Line{Tag: TagMatch, Content: l})
		}
		return Report{HasDiff: false, Lines: lines}
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	for _, d := range diffs {
		for _, l := range splitLines(strings.TrimSuffix(d.Text, "\n")) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Tag: TagMatch, Content: l})
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Tag: TagExpected, Content: l})
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Tag: TagActual, Content: l})
			}
		}
	}

	return Report{HasDiff: true, Lines: lines}
}

// Render formats a Report the way the hint prompt and API responses embed
// it: one "TAG: content" line per entry.
func (r Report) Render() string {
	var b strings.Builder
	for _, l := range r.Lines {
		b.WriteString(string(l.Tag))
		b.WriteString(": ")
		b.WriteString(l.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// trimLines strips leading/trailing whitespace from the string as a whole
// and from every interior line, so trailing spaces on a non-final line
// don't register as a mismatch (spec.md §3, line-by-line whitespace rule).
func trimLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}
