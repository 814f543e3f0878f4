// Package hint implements the Pedagogical Hint Orchestrator (C8): it
// tracks consecutive failures against the same error class, escalates a
// three-level disclosure ladder, assembles the oracle prompt, parses the
// structured reply, and derives a minimal source patch (spec.md §4.8).
package hint

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"labta/internal/diagnostics"
	"labta/internal/knowledge"
	"labta/internal/oracle"
	"labta/internal/outcome"
	"labta/internal/session"
)

// congratsSystemMessage and congratsHint are the original implementation's
// fixed literals for a passing submission, kept as package constants
// rather than templated through the knowledge base (SPEC_FULL.md §5,
// supplemented feature #2).
const (
	congratsSystemMessage = "**Great Job!** You passed all tests."
	congratsHint          = "Congratulations! You are ready for the next challenge."
)

// Bundle is the final result handed back to the transport: status, the
// investigation's logs (possibly extended with an "unlocked" diff
// section), the session-progression narration, and the pedagogical hint
// itself.
type Bundle struct {
	Status         outcome.Status
	Logs           []string
	SystemMessages []string
	Hint           string
	Citation       string
	Patch          string
}

// Input is everything the orchestrator needs about one submission's
// outcome: the final (possibly classifier-overridden) status and
// evidence, the raw investigation logs, and whether a priority-analyzer
// override already replaced the evidence with a knowledge-base hint (in
// which case it must not be re-parsed as raw compiler/runtime output).
type Input struct {
	UserID, ProblemID string
	Language          string
	Source            string
	Status            outcome.Status
	Evidence          outcome.Evidence
	Logs              []string
	Overridden        bool
}

// KnowledgeSource resolves an error-class identifier to its merged
// knowledge-base record. *knowledge.Base satisfies this directly; a
// hot-reload wrapper around a knowledge.Watcher can stand in just as well,
// since the orchestrator never needs the full Base value, only lookups.
type KnowledgeSource interface {
	Get(errType string) (knowledge.Entry, bool)
}

// Orchestrator wires the session store, knowledge base and LLM oracle
// together to implement C8 end to end.
type Orchestrator struct {
	Sessions  *session.Store
	Knowledge KnowledgeSource
	Oracle    oracle.Oracle
	Log       *zap.Logger
}

// New builds an Orchestrator. A nil logger is replaced with a no-op one.
func New(sessions *session.Store, kb KnowledgeSource, orc oracle.Oracle, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{Sessions: sessions, Knowledge: kb, Oracle: orc, Log: log}
}

// Submit applies the session update rules (spec.md §4.8 "Session update",
// Invariants A/B), then — for any non-success outcome — selects the
// disclosure level, consults the oracle, and derives a patch once the
// student has failed the same error class three times running.
func (o *Orchestrator) Submit(ctx context.Context, in Input) (Bundle, error) {
	sess, err := o.Sessions.ApplySubmission(in.UserID, in.ProblemID, in.Status)
	if err != nil {
		return Bundle{}, fmt.Errorf("updating session: %w", err)
	}

	logs := append([]string{}, in.Logs...)

	if in.Status == outcome.Success {
		return Bundle{
			Status:         outcome.Success,
			Logs:           logs,
			SystemMessages: []string{congratsSystemMessage},
			Hint:           congratsHint,
		}, nil
	}

	var systemMessages []string
	if sess.Attempt > 1 {
		systemMessages = append(systemMessages,
			fmt.Sprintf("**Issue Persists:** Attempt #%d at fixing %s.", sess.Attempt, in.Status))
	} else {
		systemMessages = append(systemMessages,
			fmt.Sprintf("**New Challenge:** Encountered a %s.", in.Status))
	}

	lv := levelForAttempt(sess.Attempt)
	entry := o.knowledgeEntry(in.Status)
	evidenceText := cleanEvidence(in.Status, in.Evidence, in.Language, in.Overridden)

	// Patch gating (spec.md §4.8 "Patch gating"): LOGIC_ERROR specifically
	// unlocks the detailed stdout diff into the logs at attempt >= 3.
	if in.Status == outcome.LogicError && sess.Attempt >= 3 && in.Evidence.Diff != nil {
		logs = append(logs, "**Diff Analysis Unlocked (Attempt 3+):**", in.Evidence.Diff.Diff)
		systemMessages = append(systemMessages, "**Source Patch Unlocked:** A suggested code fix is now available.")
	}

	prompt := buildPrompt(lv, in.Language, in.Source, evidenceText, entry.Concept, entry.HintTemplate)
	hintText, patch := o.consultOracle(ctx, prompt, lv, in.Source, entry.HintTemplate)

	return Bundle{
		Status:         in.Status,
		Logs:           logs,
		SystemMessages: systemMessages,
		Hint:           hintText,
		Citation:       entry.Citation,
		Patch:          patch,
	}, nil
}

func (o *Orchestrator) knowledgeEntry(status outcome.Status) knowledge.Entry {
	if entry, ok := o.Knowledge.Get(string(status)); ok {
		return entry
	}
	return knowledge.Entry{
		Concept:      "Unknown Error",
		HintTemplate: "Explain the error clearly.",
		Citation:     "General Concept",
	}
}

// cleanEvidence normalizes the evidence string embedded in the oracle
// prompt: LOGIC_ERROR keeps its rendered diff, a priority-analyzer
// override keeps the knowledge-base hint it was replaced with verbatim,
// and raw compiler/runtime stderr is normalized through the Diagnostic
// Parser into a "Line N: message" string (spec.md §7).
func cleanEvidence(status outcome.Status, evidence outcome.Evidence, language string, overridden bool) string {
	if evidence.Diff != nil {
		return evidence.Diff.Diff
	}
	if overridden || !isParsableDiagnostic(status) {
		return evidence.Text
	}
	diag := diagnostics.GetFirstError(evidence.Text, language)
	return fmt.Sprintf("Line %s: %s", diag.Line, diag.Message)
}

func isParsableDiagnostic(status outcome.Status) bool {
	switch status {
	case outcome.SyntaxError, outcome.CompilationError, outcome.RuntimeError, outcome.TypeError:
		return true
	default:
		return false
	}
}

// oracleStructured is the level-3 structured reply shape: a hint plus the
// full corrected program the patch is diffed against.
type oracleStructured struct {
	Hint      string `json:"hint"`
	FixedCode string `json:"fixed_code"`
}

// consultOracle calls the oracle and, at the direct disclosure level,
// extracts and parses its structured reply. A failed parse — or an
// unavailable oracle — falls back to the raw reply (or the knowledge
// template) as the hint and no patch (spec.md §4.8, §4.9).
func (o *Orchestrator) consultOracle(ctx context.Context, prompt string, lv level, studentSource, fallbackHint string) (hintText, patch string) {
	reply, err := o.Oracle.Complete(ctx, prompt)
	if err != nil {
		o.Log.Info("oracle unavailable, proceeding without AI hint", zap.Error(err))
		return fallbackHint, ""
	}

	if lv != levelDirect {
		return strings.TrimSpace(reply), ""
	}

	span, ok := firstBraceSpan(reply)
	if !ok {
		return strings.TrimSpace(reply), ""
	}

	var structured oracleStructured
	if err := json.Unmarshal([]byte(span), &structured); err != nil {
		return strings.TrimSpace(reply), ""
	}

	return structured.Hint, derivePatch(studentSource, structured.FixedCode)
}
