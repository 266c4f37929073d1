// Package logging builds the daemon's slog.Logger, mirroring the teacher's
// inline setup in cmd/asahi-map/main.go as a small reusable constructor.
package logging

import (
	"log/slog"
	"os"
)

// New builds a text-handler logger writing to stderr, at debug level when
// verbose is set and info level otherwise.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
