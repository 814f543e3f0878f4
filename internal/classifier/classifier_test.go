package classifier

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labta/internal/knowledge"
	"labta/internal/outcome"
)

func pat(s string) *regexp.Regexp { return regexp.MustCompile("(?i)" + s) }

func TestAnalyze_SelectsLowestPriority(t *testing.T) {
	catalog := []knowledge.Entry{
		{Type: "LOW", Priority: 3, Pattern: pat("warning"), HintTemplate: "low"},
		{Type: "HIGH", Priority: 1, Pattern: pat("warning"), HintTemplate: "high"},
	}
	m := Analyze([]string{"a warning occurred"}, catalog)
	require.True(t, m.Found)
	assert.Equal(t, "HIGH", m.Entry.Type)
}

func TestAnalyze_TiesBrokenByCatalogOrder(t *testing.T) {
	catalog := []knowledge.Entry{
		{Type: "FIRST", Priority: 2, Pattern: pat("boom")},
		{Type: "SECOND", Priority: 2, Pattern: pat("boom")},
	}
	m := Analyze([]string{"boom"}, catalog)
	require.True(t, m.Found)
	assert.Equal(t, "FIRST", m.Entry.Type)
}

func TestAnalyze_CaseInsensitive(t *testing.T) {
	catalog := []knowledge.Entry{{Type: "X", Priority: 1, Pattern: pat("uninitialized")}}
	m := Analyze([]string{"UNINITIALIZED read detected"}, catalog)
	assert.True(t, m.Found)
}

func TestAnalyze_NoMatch(t *testing.T) {
	catalog := []knowledge.Entry{{Type: "X", Priority: 1, Pattern: pat("nope")}}
	m := Analyze([]string{"all good"}, catalog)
	assert.False(t, m.Found)
}

func TestAnalyze_SkipsEntriesWithoutPattern(t *testing.T) {
	catalog := []knowledge.Entry{{Type: "X", Priority: 1, Pattern: nil}}
	m := Analyze([]string{"anything"}, catalog)
	assert.False(t, m.Found)
}

func TestOverride_RewritesLogicError(t *testing.T) {
	match := Match{Found: true, Entry: knowledge.Entry{Type: "UNINITIALIZED_READ", Priority: 1, HintTemplate: "check init"}}
	status, evidence, overrode := Override(outcome.LogicError, outcome.DiffEv("a", "b", "diff"), match, Config{})

	assert.True(t, overrode)
	assert.Equal(t, outcome.Status("UNINITIALIZED_READ"), status)
	assert.Equal(t, "check init", evidence.Text)
}

func TestOverride_PassesThroughNonLogicError(t *testing.T) {
	match := Match{Found: true, Entry: knowledge.Entry{Type: "X", Priority: 1}}
	status, _, overrode := Override(outcome.RuntimeError, outcome.TextEvidence("boom"), match, Config{})

	assert.False(t, overrode)
	assert.Equal(t, outcome.RuntimeError, status)
}

func TestOverride_RuntimeErrorUpgradeGatedByConfig(t *testing.T) {
	match := Match{Found: true, Entry: knowledge.Entry{Type: "X", Priority: 1}}

	status, _, overrode := Override(outcome.RuntimeError, outcome.TextEvidence("boom"), match,
		Config{AllowPriority1OverrideRuntime: true})
	assert.True(t, overrode)
	assert.Equal(t, outcome.Status("X"), status)

	status, _, overrode = Override(outcome.RuntimeError, outcome.TextEvidence("boom"), match, Config{})
	assert.False(t, overrode)
	assert.Equal(t, outcome.RuntimeError, status)
}

func TestOverride_NoMatchNoOverride(t *testing.T) {
	status, _, overrode := Override(outcome.LogicError, outcome.TextEvidence(""), Match{}, Config{})
	assert.False(t, overrode)
	assert.Equal(t, outcome.LogicError, status)
}
