package langdriver

import (
	"context"

	"labta/internal/outcome"
	"labta/internal/sandbox"
)

type cDriver struct{}

func (cDriver) Language() string { return "c" }

func (cDriver) Run(ctx context.Context, runner sandbox.Runner, workspaceRoot, source, stdin string) (Result, error) {
	res, err := runWorkspace(ctx, runner, workspaceRoot, "main.c", source, stdin,
		[]string{"gcc main.c -o main.out", "./main.out"})
	if err != nil {
		return Result{}, err
	}
	if containsAny(res.Stderr, "error:") && containsAny(res.Stderr, "main.c") {
		return preClassified(outcome.CompilationError, res.Stderr), nil
	}
	return rawResult(res), nil
}
