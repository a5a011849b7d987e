package testutil

import (
	"bytes"
	"log/slog"

	"github.com/preston-bernstein/football-sync-service/internal/logging"
)

// NewBufferLogger returns a debug-level service logger writing text into the
// returned buffer.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "debug", Output: &buf})
	return logger, &buf
}
