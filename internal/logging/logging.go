// Package logging builds the slog logger shared by the CLI, the orchestrator and the
// materializer, including the five-step level ladder used by -v and -q.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelCritical sits above slog.LevelError and is used for run-terminating messages.
const LevelCritical = slog.LevelError + 4

// Ladder is the ordered level set adjusted by verbosity flags.
var Ladder = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError, LevelCritical}

// BaseLevel is the level used when no verbosity flags are given.
const BaseLevel = slog.LevelError

// LevelFor walks the ladder from BaseLevel: each verbose step moves toward DEBUG and
// each quiet step toward CRITICAL. The result is clamped to the ends of the ladder.
func LevelFor(verbose, quiet int) slog.Level {
	idx := 0
	for i, l := range Ladder {
		if l == BaseLevel {
			idx = i
		}
	}
	idx += quiet - verbose
	if idx < 0 {
		idx = 0
	}
	if idx > len(Ladder)-1 {
		idx = len(Ladder) - 1
	}
	return Ladder[idx]
}

// LevelName renders a level the way the ladder names it.
func LevelName(l slog.Level) string {
	switch {
	case l >= LevelCritical:
		return "CRITICAL"
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// New returns a logger writing to w (stderr when nil) in the given format, "text" or "json".
func New(level slog.Level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(LevelName(l))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Critical logs msg at LevelCritical.
func Critical(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelCritical, msg, args...)
}
