// Package logging is a thin, structured wrapper around log/slog: JSON by
// default, text mode for local development, contextual With* builders.
// Fields are named for this domain: run_id (one planner invocation),
// search_node_id (an AND/OR search-graph node id, not an HTN node-id),
// heuristic (which of h_max/h_add/h_ff is active).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/koalaplan/fondhtn/pkg/heuristic"
)

// contextKey is used for context keys to avoid collisions
type contextKey string

const (
	// ContextKeyLogger is the context key for the logger instance
	ContextKeyLogger contextKey = "logger"
)

// Logger wraps slog.Logger with planner-specific field builders.
type Logger struct {
	logger *slog.Logger
}

// Config holds logging configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Output is where logs are written (default: os.Stdout)
	Output io.Writer
	// Pretty enables human-readable text output (default: false for JSON)
	Pretty bool
	// IncludeCaller includes source location in logs (default: false)
	IncludeCaller bool
}

// DefaultConfig returns default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		Output:        os.Stdout,
		Pretty:        false,
		IncludeCaller: false,
	}
}

// levelNames maps every accepted Config.Level spelling to its slog.Level.
// "warning" is accepted as a synonym for "warn"; pkg/config itself only
// accepts "warn".
var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel converts a string level to its slog.Level, defaulting to
// info for anything unrecognized.
func parseLevel(level string) slog.Level {
	if l, ok := levelNames[level]; ok {
		return l
	}
	return slog.LevelInfo
}

// handlerFactories selects the slog.Handler constructor for a Config:
// Pretty picks the line-oriented text handler, otherwise JSON.
var handlerFactories = map[bool]func(io.Writer, *slog.HandlerOptions) slog.Handler{
	true:  func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
	false: func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	}
	return &Logger{logger: slog.New(handlerFactories[cfg.Pretty](output, opts))}
}

// WithContext adds the logger to a context
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, l)
}

// FromContext retrieves the logger from context, or returns default logger
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ContextKeyLogger).(*Logger); ok {
		return logger
	}
	return New(DefaultConfig())
}

// with returns a copy of l with attr appended to its context, the shared
// tail of every domain-specific and generic With* builder below.
func (l *Logger) with(attr slog.Attr) *Logger {
	return &Logger{logger: l.logger.With(attr)}
}

// WithRunID adds run_id to the logger context: the UUID correlating every
// log line emitted by one driver.Run invocation.
func (l *Logger) WithRunID(runID string) *Logger {
	return l.with(slog.String("run_id", runID))
}

// WithSearchNodeID adds search_node_id to the logger context: an AND/OR
// search-graph node's id (searchgraph.Node.ID), never an HTN node-id.
func (l *Logger) WithSearchNodeID(id int) *Logger {
	return l.with(slog.Int("search_node_id", id))
}

// WithHeuristic adds heuristic to the logger context: which of
// h_max/h_add/h_ff is active for the run being logged.
func (l *Logger) WithHeuristic(kind heuristic.Kind) *Logger {
	return l.with(slog.String("heuristic", kind.String()))
}

// WithField adds a custom field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.with(slog.Any(key, value))
}

// WithFields adds multiple custom fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{logger: l.logger.With(args...)}
}

// WithError adds error to the logger context
func (l *Logger) WithError(err error) *Logger {
	return l.with(slog.Any("error", err))
}

// log dispatches to the underlying slog.Logger at level, the shared body
// behind every exported level method and its formatted counterpart.
func (l *Logger) log(level slog.Level, msg string) {
	l.logger.Log(context.Background(), level, msg)
}

func (l *Logger) Debug(msg string) { l.log(slog.LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.log(slog.LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.log(slog.LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.log(slog.LevelError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(slog.LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(slog.LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(slog.LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(slog.LevelError, fmt.Sprintf(format, args...)) }

// GetSlogLogger returns the underlying slog.Logger for advanced use cases
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}
