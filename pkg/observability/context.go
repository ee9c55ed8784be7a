package observability

import (
	"context"

	"github.com/google/uuid"
)

// Log attribute names for the ids carried on a request context.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
)

type (
	correlationIDKey struct{}
	requestIDKey     struct{}
)

// WithCorrelationID stores id on ctx, generating one when id is empty.
// The correlation id follows a unit of work across the API, MCP and outbox.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, orNewID(id))
}

func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey{})
}

// WithRequestID stores id on ctx, generating one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, orNewID(id))
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// NewRequestContext gives ctx a fresh request id and either the given
// correlation id or a new one.
func NewRequestContext(ctx context.Context, correlationID string) context.Context {
	return WithCorrelationID(WithRequestID(ctx, ""), correlationID)
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
