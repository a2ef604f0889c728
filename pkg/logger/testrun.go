package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output but still reports the requested level as
// enabled, so debug-only code paths run under test.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
