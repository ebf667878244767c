package kmpar

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with training-specific helpers.
// Field names are consistent across all helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithDestination adds the snapshot destination to the logger.
func (l *Logger) WithDestination(dest string) *Logger {
	return &Logger{
		Logger: l.Logger.With("destination", dest),
	}
}

// LogTrainStart logs the start of a training job.
func (l *Logger) LogTrainStart(ctx context.Context, rows, cols int, init Initialization, seed int64) {
	l.InfoContext(ctx, "training started",
		"rows", rows,
		"cols", cols,
		"initialization", init.String(),
		"seed", seed,
	)
}

// LogRound logs a finished oversampling round.
func (l *Logger) LogRound(ctx context.Context, round, candidates int, sqErr float64) {
	l.DebugContext(ctx, "round completed",
		"round", round,
		"candidates", candidates,
		"error_sum", sqErr,
	)
}

// LogRecluster logs the reduction of candidates to k centers.
func (l *Logger) LogRecluster(ctx context.Context, init Initialization, candidates, k int) {
	l.DebugContext(ctx, "recluster completed",
		"initialization", init.String(),
		"candidates", candidates,
		"centers", k,
	)
}

// LogIteration logs a finished Lloyd iteration.
func (l *Logger) LogIteration(ctx context.Context, iteration int, sqErr float64, emptyClusters int) {
	if emptyClusters > 0 {
		l.WarnContext(ctx, "iteration completed with empty clusters",
			"iteration", iteration,
			"error_sum", sqErr,
			"empty_clusters", emptyClusters,
		)
	} else {
		l.DebugContext(ctx, "iteration completed",
			"iteration", iteration,
			"error_sum", sqErr,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, round, iteration int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"round", round,
			"iteration", iteration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "snapshot saved",
			"round", round,
			"iteration", iteration,
			"duration", d,
		)
	}
}

// LogTrainDone logs the outcome of a training job.
func (l *Logger) LogTrainDone(ctx context.Context, m *Model, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"duration", d,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "training completed",
			"iterations", m.Iterations,
			"error_sum", m.Error,
			"duration", d,
		)
	}
}

// LogCanceled logs a training job that stopped before max_iter.
func (l *Logger) LogCanceled(ctx context.Context, m *Model, d time.Duration) {
	l.WarnContext(ctx, "training canceled",
		"rounds", m.Rounds,
		"iterations", m.Iterations,
		"clusters", len(m.Clusters),
		"error_sum", m.Error,
		"duration", d,
	)
}
