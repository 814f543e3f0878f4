// Package obslog provides the single structured logger used across every
// component of the grading pipeline. Components that log receive the logger
// as an injected value rather than reaching for a package-level global;
// ForSubmission derives a child logger carrying request-scoped fields.
package obslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Debug-level output (and human-readable
// console encoding) is enabled when LABTA_DEBUG is set to a non-empty value;
// otherwise it behaves like any other production JSON logger.
func New() *zap.Logger {
	var cfg zap.Config
	if os.Getenv("LABTA_DEBUG") != "" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		// Logging must never be fatal to the grading pipeline.
		return zap.NewNop()
	}
	return logger
}

// ForSubmission returns a child logger carrying the request-scoped fields
// every component logs with: who submitted, for which problem.
func ForSubmission(base *zap.Logger, userID, problemID string) *zap.Logger {
	return base.With(zap.String("user_id", userID), zap.String("problem_id", problemID))
}
