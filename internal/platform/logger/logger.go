package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds the settings the logger setup needs.
type Config struct {
	// Level is the minimum level to emit: debug, info, warn, or error.
	Level string
}

// Setup initializes the application's logging system. It creates a
// structured JSON logger writing to stdout with the configured level and
// installs it as the process default.
func Setup(cfg Config) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)

	return log, nil
}
