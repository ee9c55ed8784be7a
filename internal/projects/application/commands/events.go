package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
)

// saveEvents writes the aggregate's pending events to the outbox inside the
// current unit of work and clears them.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, aggregate sharedDomain.AggregateRoot) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}

	aggregate.ClearDomainEvents()
	return nil
}
