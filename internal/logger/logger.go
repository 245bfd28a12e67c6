package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "orderflow"

// New creates the service logger writing JSON records at info level to stdout.
func New() *slog.Logger {
	return newWithWriter(os.Stdout, slog.LevelInfo)
}

func newWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", serviceName))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Component tags records produced by a subsystem.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("component", name))
}
