package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual_TrimsWhitespace(t *testing.T) {
	assert.True(t, Equal("  42\n", "42"))
	assert.False(t, Equal("42", "43"))
}

func TestEqual_NoNumericTolerance(t *testing.T) {
	assert.False(t, Equal("3.0", "3.00"))
}

func TestEqual_TrimsEachLineNotJustWholeString(t *testing.T) {
	assert.True(t, Equal("1 2\n3", "1 2 \n3"))
	assert.True(t, Equal("a\nb\nc", "a \n b \n c"))
}

func TestCompare_NoDiff(t *testing.T) {
	r := Compare("1\n2\n3", "1\n2\n3")
	assert.False(t, r.HasDiff)
	for _, l := range r.Lines {
		assert.Equal(t, TagMatch, l.Tag)
	}
}

func TestCompare_HasDiff(t *testing.T) {
	r := Compare("1\n2\n3", "1\n9\n3")
	assert.True(t, r.HasDiff)

	var sawExpected, sawActual bool
	for _, l := range r.Lines {
		if l.Tag == TagExpected && l.Content == "2" {
			sawExpected = true
		}
		if l.Tag == TagActual && l.Content == "9" {
			sawActual = true
		}
	}
	assert.True(t, sawExpected)
	assert.True(t, sawActual)
}

func TestReport_Render(t *testing.T) {
	r := Compare("a", "b")
	rendered := r.Render()
	assert.Contains(t, rendered, "EXPECTED: a")
	assert.Contains(t, rendered, "ACTUAL: b")
}
