package hint

import (
	"fmt"
	"strings"
)

// level is the disclosure ladder position derived from the session's
// attempt counter (spec.md §4.8 "Disclosure ladder").
type level int

const (
	levelVague level = iota + 1
	levelSpecific
	levelDirect
)

// levelForAttempt selects the disclosure level for the updated attempt
// count: <=1 vague, 2 specific, >=3 direct.
func levelForAttempt(attempt int) level {
	switch {
	case attempt <= 1:
		return levelVague
	case attempt == 2:
		return levelSpecific
	default:
		return levelDirect
	}
}

// metaCommentaryClause suppresses the oracle's tendency to narrate its own
// reasoning before answering (spec.md §4.8 "A compact constraint clause
// suppresses meta-commentary").
const metaCommentaryClause = "Do not think out loud, do not narrate your reasoning, and do not wrap your answer in markdown code fences."

func strategyFor(lv level) string {
	switch lv {
	case levelVague:
		return "Hint at the underlying concept only. Do not reveal the solution, the offending line number, or any variable names."
	case levelSpecific:
		return "Identify the specific offending line or variable and explain briefly why it is wrong. Do not write the fix for the student."
	default:
		return "Briefly state the fix, then emit the complete corrected program."
	}
}

func outputFormatFor(lv level) string {
	switch lv {
	case levelVague:
		return "Respond with exactly one short sentence. No line numbers, no code."
	case levelSpecific:
		return "Respond with at most two sentences."
	default:
		return `Respond with a single JSON object and nothing else, of the shape {"hint": "...", "fixed_code": "..."}. fixed_code must be the complete corrected program as one string.`
	}
}

// buildPrompt renders the single oracle prompt embedding language, source,
// evidence, the knowledge entry's concept and hint template, the
// level-specific strategy and the output-format instruction (spec.md
// §4.8 "Prompt assembly").
func buildPrompt(lv level, language, source, evidence, concept, hintTemplate string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a teaching assistant helping a student debug a %s program.\n\n", language)
	fmt.Fprintf(&b, "Student source:\n%s\n\n", source)
	fmt.Fprintf(&b, "Observed failure evidence:\n%s\n\n", evidence)
	fmt.Fprintf(&b, "Relevant concept: %s\n", concept)
	fmt.Fprintf(&b, "Pedagogical framing: %s\n\n", hintTemplate)
	fmt.Fprintf(&b, "Disclosure strategy: %s\n", strategyFor(lv))
	fmt.Fprintf(&b, "Output format: %s\n", outputFormatFor(lv))
	b.WriteString(metaCommentaryClause)
	b.WriteString("\n")
	return b.String()
}

// firstBraceSpan returns the first brace-delimited span of s (spec.md
// §4.8 "extracts the first brace-delimited span from the oracle's
// reply"), honoring nested braces.
func firstBraceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
