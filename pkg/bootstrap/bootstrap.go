// Package bootstrap builds process-wide infrastructure from configuration.
package bootstrap

import (
	"io"
	"log/slog"

	"github.com/abgdnv/inventory/pkg/logger"
)

// NewLogger creates a new slog.Logger writing to w with the specified level and format.
// Format "json" selects the JSON handler, anything else the text handler.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	logLevel := toLevel(level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	var logHandler slog.Handler
	if format == "json" {
		logHandler = slog.NewJSONHandler(w, loggerOpts)
	} else {
		logHandler = slog.NewTextHandler(w, loggerOpts)
	}
	return slog.New(logger.NewContextHandler(logHandler))
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
