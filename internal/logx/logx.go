// Package logx configures the process-wide slog logger.
package logx

import (
	"log/slog"
	"os"
)

// Init configures the global slog logger and returns it. Accepts levels
// debug, info, warn, error; unknown input falls back to warn, which keeps
// terminal output quiet unless asked otherwise.
func Init(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
