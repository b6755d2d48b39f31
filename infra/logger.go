package infra

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a JSON slog.Logger on stderr, teeing into a rotating file
// when logging.file is set. Stdout is left to the market reports.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer) {
	var writer io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.Logging.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB, // Megabytes
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays, // Days
			Compress:   true,
		}
		writer = io.MultiWriter(os.Stderr, fileLogger)
		closer = fileLogger
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}

	return slog.New(slog.NewJSONHandler(writer, opts)), closer
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
