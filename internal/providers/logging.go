package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/football-sync-service/internal/logging"
)

// logFetch tags a fetch log line with the provider and the page it targeted.
func logFetch(ctx context.Context, logger *slog.Logger, level slog.Level, provider string, req Request, msg string, args ...any) {
	if logger == nil {
		return
	}
	args = append(args,
		slog.String(logging.FieldProvider, provider),
		slog.String(logging.FieldKind, string(req.Kind)),
	)
	if req.URL != "" {
		args = append(args, slog.String(logging.FieldURL, req.URL))
	}
	logger.Log(ctx, level, msg, args...)
}
