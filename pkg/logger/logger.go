package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger keeps printf-style call sites on top of structured slog output.
type Logger struct {
	base  *slog.Logger
	info  *slog.Logger
	error *slog.Logger
	warn  *slog.Logger
	debug *slog.Logger
}

func New() *Logger {
	return NewWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

func NewWithWriter(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return wrap(slog.New(handler))
}

func wrap(base *slog.Logger) *Logger {
	return &Logger{
		base:  base,
		info:  base.With("level_name", "INFO"),
		error: base.With("level_name", "ERROR"),
		warn:  base.With("level_name", "WARN"),
		debug: base.With("level_name", "DEBUG"),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a child logger carrying the given attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return wrap(l.base.With(args...))
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.base
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.debug.Debug(fmt.Sprintf(format, args...))
}
