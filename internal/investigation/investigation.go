// Package investigation implements the Investigation Pipeline (C4): it
// drives a submission's hidden cases through a language driver and the
// output comparator, mapping the result through the decision ladder in
// spec.md §4.4.
package investigation

import (
	"context"
	"fmt"
	"strings"

	"labta/internal/compare"
	"labta/internal/langdriver"
	"labta/internal/outcome"
	"labta/internal/problem"
	"labta/internal/sandbox"
)

// Result is the pipeline's contract output: an ordered log, the coarse
// status, and its evidence.
type Result struct {
	Logs     []string
	Status   outcome.Status
	Evidence outcome.Evidence
}

// Pipeline wires a driver registry and a container runner together to
// investigate submissions.
type Pipeline struct {
	Drivers       *langdriver.Registry
	Runner        sandbox.Runner
	WorkspaceRoot string
}

// New builds a Pipeline.
func New(drivers *langdriver.Registry, runner sandbox.Runner, workspaceRoot string) *Pipeline {
	return &Pipeline{Drivers: drivers, Runner: runner, WorkspaceRoot: workspaceRoot}
}

// Investigate runs source against problem's hidden cases in declared
// order, short-circuiting on the first non-success (spec.md §4.4).
func (p *Pipeline) Investigate(ctx context.Context, source, language string, prob problem.Problem) Result {
	driver, ok := p.Drivers.Get(language)
	if !ok {
		return Result{
			Logs:     []string{fmt.Sprintf("unrecognized language: %s", language)},
			Status:   outcome.SystemError,
			Evidence: outcome.TextEvidence(fmt.Sprintf("unrecognized language: %s", language)),
		}
	}

	var logs []string
	for i, c := range prob.HiddenCases {
		logs = append(logs, fmt.Sprintf("case %d: running", i+1))

		res, err := driver.Run(ctx, p.Runner, p.WorkspaceRoot, source, c.Input)
		if err != nil {
			msg := fmt.Sprintf("case %d: sandbox invocation failed: %v", i+1, err)
			logs = append(logs, msg)
			return Result{Logs: logs, Status: outcome.SystemError, Evidence: outcome.TextEvidence(msg)}
		}
		logs = append(logs, rawOutputLogs(i+1, res)...)

		status, evidence := classify(res, c.Output)
		if status != outcome.Success {
			logs = append(logs, fmt.Sprintf("case %d: %s", i+1, status))
			if !evidence.IsAbsent() {
				logs = append(logs, evidence.String())
			}
			return Result{Logs: logs, Status: status, Evidence: evidence}
		}
		logs = append(logs, fmt.Sprintf("case %d: passed", i+1))
	}

	logs = append(logs, "all cases passed")
	return Result{Logs: logs, Status: outcome.Success, Evidence: outcome.Evidence{}}
}

// rawOutputLogs surfaces a case's raw toolchain stdout/stderr into the
// pipeline's logs, regardless of how the case is ultimately classified, so
// the Priority Analyzer (C6) can scan for a critical pattern that a clean
// exit code or a symbolic mismatch would otherwise hide (spec.md §4.6).
func rawOutputLogs(caseNum int, res langdriver.Result) []string {
	var stdout, stderr string
	switch {
	case res.Raw != nil:
		stdout, stderr = res.Raw.Stdout, res.Raw.Stderr
	case res.PreClassified != nil:
		stderr = res.PreClassified.Stderr
	}

	var logs []string
	if strings.TrimSpace(stderr) != "" {
		logs = append(logs, fmt.Sprintf("case %d: stderr: %s", caseNum, stderr))
	}
	if strings.TrimSpace(stdout) != "" {
		logs = append(logs, fmt.Sprintf("case %d: stdout: %s", caseNum, stdout))
	}
	return logs
}

// classify maps a single driver result through the decision ladder
// (spec.md §4.4).
func classify(res langdriver.Result, expected string) (outcome.Status, outcome.Evidence) {
	if res.PreClassified != nil {
		return res.PreClassified.Status, outcome.TextEvidence(res.PreClassified.Stderr)
	}

	raw := res.Raw
	switch raw.ExitCode {
	case sandbox.ExitTimeout:
		return outcome.TimeLimitExceeded, outcome.TextEvidence("wall-clock timeout exceeded")
	case sandbox.ExitOOMKill:
		return outcome.MemoryLimitExceeded, outcome.TextEvidence("container killed: out of memory")
	case sandbox.ExitSegfaultDocker:
		return outcome.SegfaultError, outcome.TextEvidence(raw.Stderr)
	}

	if raw.ExitCode != 0 {
		return outcome.RuntimeError, outcome.TextEvidence(raw.Stderr)
	}

	if strings.TrimSpace(raw.Stdout) == "" && expected != "" {
		return outcome.InputOutputError, outcome.TextEvidence("expected output but got none")
	}

	if !compare.Equal(expected, raw.Stdout) {
		report := compare.Compare(expected, raw.Stdout)
		return outcome.LogicError, outcome.DiffEv(expected, raw.Stdout, report.Render())
	}

	return outcome.Success, outcome.Evidence{}
}
