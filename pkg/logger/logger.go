package logger

import (
	"log/slog"
	"strings"
)

// HandlerFactory builds a handler filtering below the given level.
type HandlerFactory func(level slog.Level) slog.Handler

func New(level string, factory HandlerFactory) *slog.Logger {
	return slog.New(factory(ParseLevel(level)))
}

// ParseLevel maps a LOGLEVEL value such as "debug" or "WARN" to a slog level.
// Empty or unknown values mean info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}
