package observability

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/releasepub/internal/logfields"
)

// LogContext holds the structured logging fields carried through a publish attempt.
type LogContext struct {
	PublishID string
	Host      string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithPublishID adds a publish attempt ID to the context.
func WithPublishID(ctx context.Context, id string) context.Context {
	lc := extractLogContext(ctx)
	lc.PublishID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithHost adds the host adapter name to the context.
func WithHost(ctx context.Context, host string) context.Context {
	lc := extractLogContext(ctx)
	lc.Host = host
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func contextAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	var attrs []slog.Attr
	if lc.PublishID != "" {
		attrs = append(attrs, logfields.PublishID(lc.PublishID))
	}
	if lc.Host != "" {
		attrs = append(attrs, logfields.Host(lc.Host))
	}
	return attrs
}

// ContextHandler decorates records with the LogContext found in the record's context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// NewLogger builds the process logger. format is "json" or "text".
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if format == "json" {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewContextHandler(base))
}
