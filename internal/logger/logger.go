// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

// Setup installs a JSON handler on stderr as the default logger. debug
// lowers the level and records source positions.
func Setup(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}
