package match

import (
	"log/slog"
	"os"
)

// Stdout carries reports, so the default logger writes warnings and above to stderr.
var logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	logger = l
}
