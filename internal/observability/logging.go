// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
)

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
	logger    *slog.Logger
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(logger *slog.Logger, tableName string) *RepoLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepoLogger{tableName: tableName, logger: logger}
}

// LogWrite records a successful insert or delete at debug level.
func (l *RepoLogger) LogWrite(ctx context.Context, operation string, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String("table", l.tableName), slog.String("operation", operation))
	for _, a := range attrs {
		args = append(args, a)
	}
	l.logger.DebugContext(ctx, "repository write", args...)
}

// LogError logs a repository error and records it on the active span.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	RecordErrorInContext(ctx, err)
}
