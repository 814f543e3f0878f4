// Package langdriver implements the per-language drivers (C2): each wraps
// a single invocation of the Container Runner with the language's
// compile/run command chain, and pre-classifies the raw result before the
// Investigation Pipeline ever sees it (spec.md §4.2).
package langdriver

import (
	"context"
	"fmt"
	"strings"

	"labta/internal/outcome"
	"labta/internal/sandbox"
)

// RawResult is the driver result when no pre-classification rule fired;
// the Investigation Pipeline interprets the triple itself.
type RawResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// PreClassifiedResult is the driver result when a language-specific rule
// already identified the outcome (e.g. a Python SyntaxError), short-
// circuiting the pipeline's own exit-code ladder.
type PreClassifiedResult struct {
	Status outcome.Status
	Stderr string
}

// Result is the tagged union a driver returns: exactly one of Raw or
// PreClassified is set (spec.md §9 Design Note "Driver result as a sum
// type").
type Result struct {
	Raw           *RawResult
	PreClassified *PreClassifiedResult
}

func rawResult(r sandbox.Result) Result {
	return Result{Raw: &RawResult{ExitCode: r.ExitCode, Stdout: r.Stdout, Stderr: r.Stderr}}
}

func preClassified(status outcome.Status, stderr string) Result {
	return Result{PreClassified: &PreClassifiedResult{Status: status, Stderr: stderr}}
}

// Driver runs a single (source, stdin) pair to completion inside its own
// per-job workspace, which it creates and unconditionally destroys
// (spec.md §4.2 step 5, Invariant I4).
type Driver interface {
	// Language is the canonical identifier used by the problem catalog and
	// the diagnostic parser ("c", "cpp", "python", "java").
	Language() string

	// Run materializes source into the per-job workspace, invokes the
	// runner with the compile/run chain, and pre-classifies the outcome.
	Run(ctx context.Context, runner sandbox.Runner, workspaceRoot, source, stdin string) (Result, error)
}

// Registry resolves a language name to its Driver.
type Registry struct {
	drivers map[string]Driver
}

// NewRegistry builds the registry with every supported language wired in.
func NewRegistry() *Registry {
	reg := &Registry{drivers: map[string]Driver{}}
	for _, d := range []Driver{cDriver{}, cppDriver{}, pythonDriver{}, javaDriver{}} {
		reg.drivers[d.Language()] = d
	}
	return reg
}

// Get resolves a language to its driver. The bool mirrors map lookup and is
// what the Investigation Pipeline uses to produce SYSTEM_ERROR for an
// unrecognized language (spec.md §4.4 Preconditions).
func (r *Registry) Get(language string) (Driver, bool) {
	d, ok := r.drivers[language]
	return d, ok
}

// runWorkspace is the shared skeleton every driver's Run builds on: create
// a per-job workspace, write the source file, invoke the runner, and
// unconditionally clean up.
func runWorkspace(
	ctx context.Context,
	runner sandbox.Runner,
	workspaceRoot, filename, source, stdin string,
	commands []string,
) (sandbox.Result, error) {
	ws, err := sandbox.NewWorkspace(workspaceRoot)
	if err != nil {
		return sandbox.Result{}, fmt.Errorf("allocating workspace: %w", err)
	}
	defer ws.Close()

	if _, err := ws.WriteFile(filename, source); err != nil {
		return sandbox.Result{}, err
	}

	return runner.Run(ctx, commands, stdin, ws.Path)
}

// containsAny reports whether s contains any of substrs.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
