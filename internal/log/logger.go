// Package log wraps slog with a component name and the field names used
// across a report run.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Field names for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSource    = "source"
	FieldPath      = "path"
	FieldRow       = "row"
	FieldField     = "field"
	FieldValue     = "value"
	FieldCount     = "count"
	FieldError     = "error"
)

// Component names.
const (
	ComponentApp        = "app"
	ComponentPipeline   = "pipeline"
	ComponentStatement  = "statement"
	ComponentClassifier = "classifier"
	ComponentReport     = "report"
)

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
	JSON      bool
	Handler   slog.Handler
}

// DefaultConfig logs text at info level to stderr so stdout stays free for
// the report itself.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stderr,
	}
}

// New creates a logger from cfg.
func New(cfg Config) *Logger {
	handler := cfg.Handler
	if handler == nil {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		opts := &slog.HandlerOptions{Level: cfg.Level}
		if cfg.JSON {
			handler = slog.NewJSONHandler(out, opts)
		} else {
			handler = slog.NewTextHandler(out, opts)
		}
	}
	l := slog.New(handler)
	if cfg.Component != "" {
		l = l.With(FieldComponent, cfg.Component)
	}
	return &Logger{Logger: l}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Config{Output: io.Discard, Level: slog.LevelError + 1})
}

// With returns a logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithComponent returns a logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(FieldComponent, component)}
}

// SetDefault installs logger as the slog default, so code logging through
// the slog package functions shares the run's handler and attributes.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
