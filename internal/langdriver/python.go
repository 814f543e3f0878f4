package langdriver

import (
	"context"

	"labta/internal/outcome"
	"labta/internal/sandbox"
)

type pythonDriver struct{}

func (pythonDriver) Language() string { return "python" }

func (pythonDriver) Run(ctx context.Context, runner sandbox.Runner, workspaceRoot, source, stdin string) (Result, error) {
	res, err := runWorkspace(ctx, runner, workspaceRoot, "main.py", source, stdin,
		[]string{"python3 main.py"})
	if err != nil {
		return Result{}, err
	}

	switch {
	case containsAny(res.Stderr, "SyntaxError", "IndentationError", "TabError"):
		return preClassified(outcome.SyntaxError, res.Stderr), nil
	case containsAny(res.Stderr, "TypeError"):
		return preClassified(outcome.TypeError, res.Stderr), nil
	}
	return rawResult(res), nil
}
