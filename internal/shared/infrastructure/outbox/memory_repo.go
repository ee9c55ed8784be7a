package outbox

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository keeps messages in process. It backs tests and runs
// where events only feed in-process consumers.
type InMemoryRepository struct {
	mu       sync.Mutex
	messages []*Message
	nextID   int64
	now      func() time.Time
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, now: time.Now}
}

func (r *InMemoryRepository) Save(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, msg)
	return nil
}

func (r *InMemoryRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *InMemoryRepository) GetUnpublished(_ context.Context, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var result []*Message
	for _, msg := range r.messages {
		if msg.PublishedAt != nil || msg.DeadLetteredAt != nil {
			continue
		}
		if msg.NextRetryAt != nil && msg.NextRetryAt.After(now) {
			continue
		}
		result = append(result, msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *InMemoryRepository) MarkPublished(_ context.Context, id int64) error {
	r.update(id, func(msg *Message) {
		now := r.now()
		msg.PublishedAt = &now
		msg.DeadLetteredAt = nil
	})
	return nil
}

func (r *InMemoryRepository) MarkFailed(_ context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	r.update(id, func(msg *Message) {
		msg.RetryCount++
		msg.LastError = &errMsg
		msg.NextRetryAt = &nextRetryAt
	})
	return nil
}

func (r *InMemoryRepository) MarkDead(_ context.Context, id int64, reason string) error {
	r.update(id, func(msg *Message) {
		now := r.now()
		msg.DeadLetteredAt = &now
		msg.DeadLetterReason = &reason
	})
	return nil
}

func (r *InMemoryRepository) DeleteOld(_ context.Context, olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-olderThan)
	kept := r.messages[:0]
	var deleted int64
	for _, msg := range r.messages {
		if msg.PublishedAt != nil && msg.PublishedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	r.messages = kept
	return deleted, nil
}

// Messages returns a snapshot of every stored message.
func (r *InMemoryRepository) Messages() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Message(nil), r.messages...)
}

func (r *InMemoryRepository) update(id int64, fn func(*Message)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			fn(msg)
			return
		}
	}
}
