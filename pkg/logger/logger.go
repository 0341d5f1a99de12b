// Package logger provides structured logging for leadscore commands.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithRunID returns a logger tagged with the batch run id
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("run_id", runID)),
	}
}

// WithCommand returns a logger tagged with the CLI command
func (l *Logger) WithCommand(cmd string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("command", cmd)),
	}
}

// Stage logs completion of a pipeline stage
func (l *Logger) Stage(stage string, records int, started time.Time, attrs ...any) {
	args := []any{
		slog.String("stage", stage),
		slog.Int("records", records),
		slog.Float64("elapsed_ms", float64(time.Since(started).Microseconds())/1000),
	}
	l.Info("stage_done", append(args, attrs...)...)
}
