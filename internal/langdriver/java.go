package langdriver

import (
	"context"

	"labta/internal/outcome"
	"labta/internal/sandbox"
)

type javaDriver struct{}

func (javaDriver) Language() string { return "java" }

func (javaDriver) Run(ctx context.Context, runner sandbox.Runner, workspaceRoot, source, stdin string) (Result, error) {
	res, err := runWorkspace(ctx, runner, workspaceRoot, "Main.java", source, stdin,
		[]string{"javac Main.java", "java -cp . Main"})
	if err != nil {
		return Result{}, err
	}

	switch {
	case containsAny(res.Stderr, "error:") && containsAny(res.Stderr, "Main.java"):
		return preClassified(outcome.CompilationError, res.Stderr), nil
	case containsAny(res.Stderr, "ClassCastException"):
		return preClassified(outcome.TypeError, res.Stderr), nil
	}
	return rawResult(res), nil
}
