// Package logging builds the shell's structured logger and carries it
// through request and plugin contexts.
//
// Components take a *slog.Logger at construction and prefer the context
// logger while serving a request or running a plugin hook, since that one
// carries request_id, correlation_id or plugin attributes:
//
//	ctx, logger := logging.Enrich(ctx, slog.String("trigger_id", id))
//	logger.ErrorContext(ctx, "action execution failed",
//	    slog.String("operation", "ExecuteTrigger"),
//	    slog.String("action_id", a.ID),
//	    slog.Any("error", err),
//	)
//
// Error entries name the operation, the trigger or action involved, and the
// full error chain via slog.Any("error", err).
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// contextKey is the unexported key type for storing loggers in context.
type contextKey struct{}

// New creates a configured *slog.Logger.
//
// level is one of "debug", "info", "warn" (or "warning") and "error",
// case-insensitively; anything else logs at info. format "text" selects
// slog.NewTextHandler and every other value JSON. Debug loggers include the
// source location. Every handler passes attributes through the masq
// redactor.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if strings.EqualFold(format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a *slog.Logger from the context.
// If no logger is stored, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Enrich derives a child of the context logger carrying attrs and stores it
// back in the returned context.
func Enrich(ctx context.Context, attrs ...slog.Attr) (context.Context, *slog.Logger) {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	logger := FromContext(ctx).With(args...)
	return WithLogger(ctx, logger), logger
}

// ParseLevel converts a level name to slog.Level. ok is false for
// unrecognized names, which map to slog.LevelInfo.
func ParseLevel(level string) (lvl slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
