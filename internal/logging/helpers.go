package logging

import (
	"context"
	"log/slog"
)

// Debug, Info, Warn and Error are no-ops on a nil logger so components can run
// unconfigured in tests.

func Debug(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelDebug, msg, args)
}

func Info(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelInfo, msg, args)
}

func Warn(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelWarn, msg, args)
}

// Error attaches err under FieldError when it is non-nil.
func Error(logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, FieldError, err)
	}
	log(logger, slog.LevelError, msg, args)
}

func log(logger *slog.Logger, level slog.Level, msg string, args []any) {
	if logger == nil {
		return
	}
	logger.Log(context.Background(), level, msg, args...)
}
