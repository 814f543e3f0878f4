// Package classifier implements the Priority Analyzer (C6): a pure
// function that scans investigation logs against the knowledge base's
// pattern catalog and can override a coarse LOGIC_ERROR outcome with a
// higher-priority classification (spec.md §4.6).
package classifier

import (
	"strings"

	"labta/internal/knowledge"
	"labta/internal/outcome"
)

// Match is the winning catalog entry for a set of logs, or the zero value
// if nothing matched.
type Match struct {
	Entry knowledge.Entry
	Found bool
}

// Config carries the one override-scope decision the spec leaves open:
// whether a Priority-1 pattern may also upgrade a RUNTIME_ERROR outcome,
// not just LOGIC_ERROR (spec.md §9 Open Question). Default is false.
type Config struct {
	AllowPriority1OverrideRuntime bool
}

// Analyze scans the concatenated logs (case-insensitive) against every
// catalog entry with a pattern, and returns the lowest-priority match
// (1 beats 2 beats 3), ties broken by catalog order. It is a pure function
// of (logs, catalog) to support property testing (spec.md §9 Design Note
// "Regex catalog").
func Analyze(logs []string, catalog []knowledge.Entry) Match {
	combined := strings.ToLower(strings.Join(logs, "\n"))

	var best knowledge.Entry
	found := false
	for _, entry := range catalog {
		if entry.Pattern == nil {
			continue
		}
		if !entry.Pattern.MatchString(combined) {
			continue
		}
		if !found || entry.Priority < best.Priority {
			best = entry
			found = true
		}
	}
	return Match{Entry: best, Found: found}
}

// Override applies spec.md §4.6's override rule: when the coarse outcome
// is LOGIC_ERROR and a match was found, rewrite the outcome to the
// matched entry's type and replace the evidence with its hint. A config
// flag additionally permits the same upgrade from RUNTIME_ERROR, resolving
// the spec's open question (default off). All other outcomes pass
// through unchanged (Invariant I7: override can only upgrade, never
// downgrade, and only from these two coarse outcomes).
//
// overrode reports whether a rewrite happened, so the caller can record
// the system log line the spec requires.
func Override(status outcome.Status, evidence outcome.Evidence, match Match, cfg Config) (outcome.Status, outcome.Evidence, bool) {
	if !match.Found {
		return status, evidence, false
	}

	eligible := status == outcome.LogicError ||
		(cfg.AllowPriority1OverrideRuntime && status == outcome.RuntimeError && match.Entry.Priority == 1)
	if !eligible {
		return status, evidence, false
	}

	return outcome.Status(match.Entry.Type), outcome.TextEvidence(match.Entry.HintTemplate), true
}
