package hint

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labta/internal/knowledge"
	"labta/internal/oracle"
	"labta/internal/outcome"
	"labta/internal/session"
)

// stubOracle returns a fixed reply, or an error when configured to.
type stubOracle struct {
	reply string
	err   error
}

func (s stubOracle) Complete(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newOrchestrator(t *testing.T, orc oracle.Oracle) *Orchestrator {
	t.Helper()
	store, err := session.Load(t.TempDir())
	require.NoError(t, err)
	kb, err := knowledge.Load(t.TempDir())
	require.NoError(t, err)
	return New(store, kb, orc, nil)
}

func TestSubmit_SuccessResetsAttemptAndCongratulates(t *testing.T) {
	o := newOrchestrator(t, stubOracle{})

	bundle, err := o.Submit(context.Background(), Input{
		UserID: "alice", ProblemID: "p1", Language: "python", Source: "print(1)",
		Status: outcome.Success,
	})
	require.NoError(t, err)

	assert.Equal(t, outcome.Success, bundle.Status)
	assert.Equal(t, congratsHint, bundle.Hint)
	assert.Contains(t, bundle.SystemMessages, congratsSystemMessage)
	assert.Empty(t, bundle.Patch)
}

func TestSubmit_FirstFailureIsVagueLevel(t *testing.T) {
	o := newOrchestrator(t, stubOracle{reply: "Think about how pointers work."})

	bundle, err := o.Submit(context.Background(), Input{
		UserID: "bob", ProblemID: "p1", Language: "c", Source: "int main(){}",
		Status:   outcome.SegfaultError,
		Evidence: outcome.TextEvidence("Segmentation Fault"),
	})
	require.NoError(t, err)

	assert.Equal(t, outcome.SegfaultError, bundle.Status)
	assert.Equal(t, "Think about how pointers work.", bundle.Hint)
	assert.Empty(t, bundle.Patch)
	assert.Contains(t, bundle.SystemMessages[0], "New Challenge")
}

func TestSubmit_ThirdConsecutiveFailureUnlocksPatch(t *testing.T) {
	orc := stubOracle{reply: `{"hint": "You forgot to read input.", "fixed_code": "print(42)\n"}`}
	o := newOrchestrator(t, orc)
	ctx := context.Background()

	diffEvidence := outcome.DiffEv("42", "0", "EXPECTED: 42\nACTUAL: 0\n")

	for i := 0; i < 2; i++ {
		_, err := o.Submit(ctx, Input{
			UserID: "carol", ProblemID: "p1", Language: "python", Source: "print(0)",
			Status: outcome.LogicError, Evidence: diffEvidence,
		})
		require.NoError(t, err)
	}

	bundle, err := o.Submit(ctx, Input{
		UserID: "carol", ProblemID: "p1", Language: "python", Source: "print(0)\n",
		Status: outcome.LogicError, Evidence: diffEvidence,
	})
	require.NoError(t, err)

	assert.Equal(t, "You forgot to read input.", bundle.Hint)
	assert.NotEmpty(t, bundle.Patch)
	assert.Contains(t, fmt.Sprint(bundle.SystemMessages), "Source Patch Unlocked")
	found := false
	for _, l := range bundle.Logs {
		if l == "EXPECTED: 42\nACTUAL: 0\n" {
			found = true
		}
	}
	assert.True(t, found, "expected diff evidence to be unlocked into the logs")
}

func TestSubmit_IdenticalFixedCodeProducesNoPatch(t *testing.T) {
	src := "print(0)\n"
	orc := stubOracle{reply: fmt.Sprintf(`{"hint": "no change needed", "fixed_code": %q}`, src)}
	o := newOrchestrator(t, orc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := o.Submit(ctx, Input{
			UserID: "dave", ProblemID: "p1", Language: "python", Source: src,
			Status: outcome.LogicError, Evidence: outcome.DiffEv("1", "0", "diff"),
		})
		require.NoError(t, err)
	}
	bundle, err := o.Submit(ctx, Input{
		UserID: "dave", ProblemID: "p1", Language: "python", Source: src,
		Status: outcome.LogicError, Evidence: outcome.DiffEv("1", "0", "diff"),
	})
	require.NoError(t, err)

	assert.Empty(t, bundle.Patch)
}

func TestSubmit_OracleUnavailableFallsBackToKnowledgeTemplate(t *testing.T) {
	o := newOrchestrator(t, stubOracle{err: oracle.ErrUnavailable})

	bundle, err := o.Submit(context.Background(), Input{
		UserID: "erin", ProblemID: "p1", Language: "c", Source: "int main(){}",
		Status:   outcome.CompilationError,
		Evidence: outcome.TextEvidence("main.c:1:1: error: expected expression"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Explain the error clearly.", bundle.Hint)
	assert.Empty(t, bundle.Patch)
}

func TestCleanEvidence_NormalizesCompileStderrViaDiagnostics(t *testing.T) {
	text := cleanEvidence(outcome.CompilationError,
		outcome.TextEvidence("main.c:3:5: error: expected ';' before '}'"), "c", false)
	assert.Contains(t, text, "Line 3:")
}

func TestCleanEvidence_OverriddenEvidencePassesThrough(t *testing.T) {
	text := cleanEvidence(outcome.CompilationError, outcome.TextEvidence("Check your scanf format string."), "c", true)
	assert.Equal(t, "Check your scanf format string.", text)
}

func TestDerivePatch_IdenticalSourcesHaveNoPatch(t *testing.T) {
	assert.Empty(t, derivePatch("a\nb\n", "a\nb\n"))
}

func TestDerivePatch_SingleLineChangeProducesHunk(t *testing.T) {
	patch := derivePatch("line1\nline2\nline3\n", "line1\nCHANGED\nline3\n")
	require.NotEmpty(t, patch)
	assert.Contains(t, patch, "@@")
	assert.Contains(t, patch, "-line2")
	assert.Contains(t, patch, "+CHANGED")
}

func TestFirstBraceSpan_ExtractsNestedObject(t *testing.T) {
	span, ok := firstBraceSpan(`here you go: {"hint": "x", "nested": {"a": 1}} trailing text`)
	require.True(t, ok)
	assert.Equal(t, `{"hint": "x", "nested": {"a": 1}}`, span)
}

func TestFirstBraceSpan_NoBraceFails(t *testing.T) {
	_, ok := firstBraceSpan("no braces here")
	assert.False(t, ok)
}
