// Package observability carries request ids, structured logging and metrics
// for pacer's adapters and workers.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LoggerOptions configures NewLogger.
type LoggerOptions struct {
	Level     slog.Level
	JSON      bool
	Output    io.Writer
	AddSource bool
	Service   string
	Version   string
}

// NewLogger builds a slog logger whose records carry the service name and
// version, plus the correlation and request ids found on the context.
func NewLogger(opts LoggerOptions) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}

	var attrs []slog.Attr
	if opts.Service != "" {
		attrs = append(attrs, slog.String("service", opts.Service))
	}
	if opts.Version != "" {
		attrs = append(attrs, slog.String("version", opts.Version))
	}
	if len(attrs) > 0 {
		h = h.WithAttrs(attrs)
	}
	return slog.New(contextHandler{h})
}

// ParseLevel maps a configured level name to a slog level. Unknown or empty
// names fall back to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// contextHandler stamps records with the ids carried by the context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(RequestIDKey, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// LogOperation scopes logger to one named operation.
func LogOperation(logger *slog.Logger, operation string, attrs ...any) *slog.Logger {
	return logger.With(append([]any{"operation", operation}, attrs...)...)
}

// LogDuration logs at debug level how long operation took since start.
func LogDuration(ctx context.Context, logger *slog.Logger, operation string, start time.Time) {
	logger.DebugContext(ctx, "operation finished",
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
