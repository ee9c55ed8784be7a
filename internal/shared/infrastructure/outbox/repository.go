package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages.
type Repository interface {
	// Save stores a new message and assigns its ID.
	Save(ctx context.Context, msg *Message) error

	// SaveBatch stores messages atomically, joining the context transaction
	// when one is present.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns due, unpublished, live messages oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes messages published more than olderThan ago.
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}
