// Package diagnostics extracts a normalized {line, column, message} record
// from raw compiler/interpreter stderr, per language. Ported line-for-line
// from the original LabTA backend's diagnostics.py, which survived the
// distillation filter whole and is treated as the authority for exact
// regex shapes and fallback order (spec.md §4.5).
package diagnostics

import (
	"regexp"
	"strings"
)

// Record is the normalized diagnostic. "?" denotes unknown, per spec.md §3.
type Record struct {
	Line    string
	Column  string
	Message string
	Raw     string
}

const unknown = "?"

// compilerPattern matches "file:line:col: (error|warning|fatal error): msg"
// for C and C++ diagnostics (gcc/g++ output).
var compilerPattern = regexp.MustCompile(`^(.*?):(\d+):(\d+): (error|warning|fatal error): (.+)$`)

// javaCompilePattern matches "file:line: error: msg" (javac output).
var javaCompilePattern = regexp.MustCompile(`^(.*?):(\d+): error: (.+)$`)

// javaFramePattern matches a single Java stack trace frame: "at X(File:Line)".
var javaFramePattern = regexp.MustCompile(`at .*?\((.*?):(\d+)\)`)

// pythonFilePattern matches a traceback's "File "...", line N" marker.
var pythonFilePattern = regexp.MustCompile(`File "(.*?)", line (\d+)`)

const maxFallbackLen = 150

// GetFirstError extracts the first diagnostic from raw stderr for the given
// language ("c", "cpp", "python", "java").
func GetFirstError(stderr, language string) Record {
	if stderr == "" {
		return Record{Line: unknown, Message: "Unknown Error", Raw: ""}
	}

	if language == "python" {
		return parsePythonError(stderr)
	}

	pattern := compilerPatternFor(language)
	if pattern != nil {
		for _, line := range strings.Split(stderr, "\n") {
			trimmed := strings.TrimSpace(line)
			m := pattern.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			if language == "java" {
				return Record{
					Line:    m[2],
					Column:  "0",
					Message: strings.TrimSpace(m[3]),
					Raw:     trimmed,
				}
			}
			return Record{
				Line:    m[2],
				Column:  m[3],
				Message: strings.TrimSpace(m[5]),
				Raw:     trimmed,
			}
		}
	}

	if language == "java" {
		if trace := parseJavaTraceback(stderr); trace.Line != unknown {
			return trace
		}
	}

	return fallback(stderr)
}

func compilerPatternFor(language string) *regexp.Regexp {
	switch language {
	case "c", "cpp":
		return compilerPattern
	case "java":
		return javaCompilePattern
	default:
		return nil
	}
}

// parsePythonError finds the last "Error:"-bearing line for the message and
// the deepest (last-seen) "File ..., line N" occurrence for the line number.
func parsePythonError(stderr string) Record {
	lines := strings.Split(stderr, "\n")

	message := "Runtime Error"
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && strings.Contains(line, "Error:") {
			message = line
			break
		}
	}

	lineNum := unknown
	for _, line := range lines {
		if m := pythonFilePattern.FindStringSubmatch(line); m != nil {
			lineNum = m[2]
		}
	}

	return Record{Line: lineNum, Column: "0", Message: message, Raw: stderr}
}

// parseJavaTraceback walks the stack trace for the first frame whose file
// token matches Main.java.
func parseJavaTraceback(stderr string) Record {
	lines := strings.Split(stderr, "\n")
	message := "Runtime Error"
	if len(lines) > 0 {
		message = lines[0]
	}

	lineNum := unknown
	for _, line := range lines {
		m := javaFramePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if strings.Contains(m[1], "Main.java") {
			lineNum = m[2]
			break
		}
	}

	return Record{Line: lineNum, Column: "0", Message: message, Raw: stderr}
}

func fallback(stderr string) Record {
	firstLine := strings.Split(strings.TrimSpace(stderr), "\n")[0]
	if len(firstLine) > maxFallbackLen {
		firstLine = firstLine[:maxFallbackLen]
	}
	return Record{Line: unknown, Message: firstLine, Raw: stderr}
}
