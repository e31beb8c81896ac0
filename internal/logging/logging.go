// Package logging builds the structured logger shared by the print host,
// the form side and the CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a text slog.Logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func New(level string, w io.Writer) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Discard is a logger that drops every record; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
