// Package outcome defines the closed status enumeration and the polymorphic
// evidence payload shared by the investigation pipeline, the priority
// analyzer and the hint orchestrator (spec.md §3, §9).
package outcome

// Status is the closed outcome enumeration produced by the investigation
// pipeline (C4) and possibly rewritten by the priority analyzer (C6).
type Status string

const (
	Success             Status = "SUCCESS"
	SyntaxError         Status = "SYNTAX_ERROR"
	CompilationError    Status = "COMPILATION_ERROR"
	RuntimeError        Status = "RUNTIME_ERROR"
	SegfaultError       Status = "SEGFAULT_ERROR"
	TypeError           Status = "TYPE_ERROR"
	TimeLimitExceeded   Status = "TIME_LIMIT_EXCEEDED"
	MemoryLimitExceeded Status = "MEMORY_LIMIT_EXCEEDED"
	InputOutputError    Status = "INPUT_OUTPUT_ERROR"
	LogicError          Status = "LOGIC_ERROR"
	SystemError         Status = "SYSTEM_ERROR"
)

// Evidence is the sum type replacing the original's untyped per-outcome
// payload (spec.md §9 Design Note "Polymorphic evidence"). Exactly one of
// Text or Diff is set; Evidence's zero value represents "absent" (the
// SUCCESS case).
type Evidence struct {
	Text string
	Diff *DiffEvidence
}

// DiffEvidence is the structured payload for LOGIC_ERROR: expected vs.
// actual output plus a human-readable diff report.
type DiffEvidence struct {
	Expected string
	Actual   string
	Diff     string
}

// TextEvidence wraps a plain string as Evidence (compile/runtime/resource outcomes).
func TextEvidence(s string) Evidence {
	return Evidence{Text: s}
}

// DiffEv wraps a structured diff as Evidence (LOGIC_ERROR).
func DiffEv(expected, actual, diff string) Evidence {
	return Evidence{Diff: &DiffEvidence{Expected: expected, Actual: actual, Diff: diff}}
}

// IsAbsent reports whether this Evidence carries no payload (the SUCCESS
// case).
func (e Evidence) IsAbsent() bool {
	return e.Text == "" && e.Diff == nil
}

// String renders the evidence as the plain-text form consumed by the hint
// prompt and by non-LOGIC_ERROR evidence strings embedded in responses.
func (e Evidence) String() string {
	if e.Diff != nil {
		return e.Diff.Diff
	}
	return e.Text
}
