// Package logger is the process-wide structured logger. Log lines are for
// tracing what cp decided; user-facing diagnostics are written by the
// command itself.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
)

// Logger is nil until Initialize or InitNoOp runs, in which case the helpers
// below do nothing.
var Logger *slog.Logger

// NoOpHandler drops every record.
type NoOpHandler struct{}

func (h NoOpHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (h NoOpHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h NoOpHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return h }
func (h NoOpHandler) WithGroup(_ string) slog.Handler               { return h }

// Config holds logger configuration
type Config struct {
	Level   slog.Level
	Output  io.Writer
	Handler slog.Handler
	// Program, when set, is attached to every record as "prog".
	Program string
}

// Initialize sets up the global logger with the specified configuration
func Initialize(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	handler := cfg.Handler
	if handler == nil {
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: cfg.Level,
		})
	}

	Logger = slog.New(handler)
	if cfg.Program != "" {
		Logger = Logger.With("prog", cfg.Program)
	}

	log.SetOutput(output)
	log.SetFlags(0)
}

// InitNoOp installs a logger that discards everything.
func InitNoOp() {
	Logger = slog.New(NoOpHandler{})
	log.SetOutput(io.Discard)
	log.SetFlags(0)
}

func Debug(msg string, args ...any) {
	if Logger != nil {
		Logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if Logger != nil {
		Logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if Logger != nil {
		Logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if Logger != nil {
		Logger.Error(msg, args...)
	}
}
