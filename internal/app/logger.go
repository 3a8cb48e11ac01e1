package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's isolated slog.Logger; nothing here touches the
// process-global default. An unrecognized or empty level falls back to warn,
// the same default the CLI advertises, so a zero-valued Config stays quiet
// during builds.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
