package langdriver

import (
	"context"

	"labta/internal/outcome"
	"labta/internal/sandbox"
)

type cppDriver struct{}

func (cppDriver) Language() string { return "cpp" }

func (cppDriver) Run(ctx context.Context, runner sandbox.Runner, workspaceRoot, source, stdin string) (Result, error) {
	res, err := runWorkspace(ctx, runner, workspaceRoot, "main.cpp", source, stdin,
		[]string{"g++ main.cpp -o main.out", "./main.out"})
	if err != nil {
		return Result{}, err
	}
	if containsAny(res.Stderr, "error:") && containsAny(res.Stderr, "main.cpp") {
		return preClassified(outcome.CompilationError, res.Stderr), nil
	}
	return rawResult(res), nil
}
