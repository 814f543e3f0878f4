package hint

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// segment is one line of a line-level diff, tagged the way a unified diff
// tags lines: ' ' context, '-' removed, '+' added.
type segment struct {
	tag  byte
	text string
}

// derivePatch computes the minimal unified diff between studentSource and
// correctedSource with one line of context, strips the first two header
// lines, and returns the remaining body (spec.md §4.8 "Patch derivation").
// Returns "" when the two sources are identical (Invariant I5).
func derivePatch(studentSource, correctedSource string) string {
	if studentSource == correctedSource || correctedSource == "" {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(studentSource, correctedSource)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	segs := segmentsFromDiffs(diffs)
	hunks := hunksFromSegments(segs, 1)
	if len(hunks) == 0 {
		return ""
	}

	var full strings.Builder
	full.WriteString("--- student\n")
	full.WriteString("+++ corrected\n")
	for _, h := range hunks {
		full.WriteString(h.render())
	}

	lines := strings.SplitN(full.String(), "\n", 3)
	if len(lines) < 3 {
		return ""
	}
	return lines[2]
}

func segmentsFromDiffs(diffs []diffmatchpatch.Diff) []segment {
	var segs []segment
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		text := strings.TrimSuffix(d.Text, "\n")
		var tag byte
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			tag = ' '
		case diffmatchpatch.DiffDelete:
			tag = '-'
		case diffmatchpatch.DiffInsert:
			tag = '+'
		default:
			continue
		}
		for _, l := range strings.Split(text, "\n") {
			segs = append(segs, segment{tag: tag, text: l})
		}
	}
	return segs
}

// numbered is a segment annotated with its 1-based position in the old and
// new file (0 when the segment doesn't exist on that side).
type numbered struct {
	segment
	oldLine int
	newLine int
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []segment
}

func (h hunk) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldCount, h.newStart, h.newCount)
	for _, l := range h.lines {
		b.WriteByte(l.tag)
		b.WriteString(l.text)
		b.WriteString("\n")
	}
	return b.String()
}

// hunksFromSegments groups a flat line-diff into unified-diff hunks with
// the given number of leading/trailing context lines, merging runs of
// changes that are within 2*context of each other.
func hunksFromSegments(segs []segment, context int) []hunk {
	old, new_ := 1, 1
	nums := make([]numbered, len(segs))
	for i, s := range segs {
		n := numbered{segment: s}
		switch s.tag {
		case ' ':
			n.oldLine, n.newLine = old, new_
			old++
			new_++
		case '-':
			n.oldLine = old
			old++
		case '+':
			n.newLine = new_
			new_++
		}
		nums[i] = n
	}

	var changed []int
	for i, n := range nums {
		if n.tag != ' ' {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var hunks []hunk
	i := 0
	for i < len(changed) {
		start := changed[i]
		end := changed[i]
		j := i + 1
		for j < len(changed) && changed[j]-end <= 2*context+1 {
			end = changed[j]
			j++
		}

		lo := start - context
		if lo < 0 {
			lo = 0
		}
		hi := end + context
		if hi >= len(nums) {
			hi = len(nums) - 1
		}
		window := nums[lo : hi+1]

		h := hunk{
			oldStart: firstOldLine(window, lo),
			newStart: firstNewLine(window, lo),
		}
		for _, n := range window {
			h.lines = append(h.lines, n.segment)
			if n.tag != '+' {
				h.oldCount++
			}
			if n.tag != '-' {
				h.newCount++
			}
		}
		hunks = append(hunks, h)
		i = j
	}
	return hunks
}

// firstOldLine/firstNewLine find the starting line number for a hunk's
// window, falling back to 1 for the degenerate all-insert/all-delete case
// at the very start of the file.
func firstOldLine(window []numbered, lo int) int {
	for _, n := range window {
		if n.oldLine != 0 {
			return n.oldLine
		}
	}
	return lo + 1
}

func firstNewLine(window []numbered, lo int) int {
	for _, n := range window {
		if n.newLine != 0 {
			return n.newLine
		}
	}
	return lo + 1
}
