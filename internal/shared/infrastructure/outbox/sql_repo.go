package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const (
	insertMessage = `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at, next_retry_at, dead_lettered_at, dead_letter_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	selectMessages = `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox`
)

// SQLRepository implements Repository on any database.Connection.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates a SQL outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

// WithClock overrides the time source used for due and retention checks.
func (r *SQLRepository) WithClock(now func() time.Time) *SQLRepository {
	r.now = now
	return r
}

func (r *SQLRepository) insert(ctx context.Context, exec database.Executor, msg *Message) error {
	err := exec.QueryRow(ctx, insertMessage,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		string(msg.Metadata),
		msg.CreatedAt.UTC(),
		msg.NextRetryAt,
		msg.DeadLetteredAt,
		msg.DeadLetterReason,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to insert outbox message %s: %w", msg.EventID, err)
	}
	return nil
}

// Save implements Repository.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	return r.insert(ctx, database.ExecutorFromContext(ctx, r.conn), msg)
}

// SaveBatch implements Repository.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	err := database.InTx(ctx, r.conn, func(exec database.Executor) error {
		for _, msg := range msgs {
			if err := r.insert(ctx, exec, msg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save outbox batch: %w", err)
	}
	return nil
}

// GetUnpublished implements Repository.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := selectMessages + `
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`

	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, r.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkPublished implements Repository.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`,
		r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox message %d published: %w", id, err)
	}
	return nil
}

// MarkFailed implements Repository.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`,
		errMsg, nextRetryAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox message %d failed: %w", id, err)
	}
	return nil
}

// MarkDead implements Repository.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?`,
		r.now().UTC(), reason, id)
	if err != nil {
		return fmt.Errorf("failed to dead-letter outbox message %d: %w", id, err)
	}
	return nil
}

// DeleteOld implements Repository.
func (r *SQLRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		r.now().Add(-olderThan).UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old outbox messages: %w", err)
	}
	return result.RowsAffected()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg               Message
		eventID, aggID    string
		payload, metadata []byte
	)
	err := row.Scan(
		&msg.ID,
		&eventID,
		&msg.AggregateType,
		&aggID,
		&msg.EventType,
		&msg.RoutingKey,
		&payload,
		&metadata,
		&msg.CreatedAt,
		&msg.PublishedAt,
		&msg.NextRetryAt,
		&msg.RetryCount,
		&msg.LastError,
		&msg.DeadLetteredAt,
		&msg.DeadLetterReason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan outbox message: %w", err)
	}

	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("invalid event id %q: %w", eventID, err)
	}
	if msg.AggregateID, err = uuid.Parse(aggID); err != nil {
		return nil, fmt.Errorf("invalid aggregate id %q: %w", aggID, err)
	}
	msg.Payload = payload
	msg.Metadata = metadata
	return &msg, nil
}
