package application

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/felixgeelhaar/pacer/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates command-scoped metadata for domain events.
// The correlation ID is taken from the context when one is present so that
// events can be traced back to the CLI invocation or request that caused them.
func NewEventMetadata(ctx context.Context) domain.EventMetadata {
	correlationID := uuid.New()
	if raw := observability.CorrelationIDFromContext(ctx); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			correlationID = parsed
		}
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
