package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/ongoing-monitor/internal/config"
)

// NewLogger builds the process logger for the named command and installs it
// as the slog default. Every record carries the command name and build
// version so output from match and reconcile runs can be told apart.
//
// Format "json" produces structured output; anything else is text with
// source locations. Output always goes to os.Stderr.
func NewLogger(cfg config.LogConfig, command string) *slog.Logger {
	logger := newLogger(os.Stderr, cfg).With(
		slog.String("cmd", command),
		slog.String("version", Version),
	)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
