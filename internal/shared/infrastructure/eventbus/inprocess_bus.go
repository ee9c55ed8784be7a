package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// InProcessEventBus delivers published envelopes synchronously to local
// consumers. It is the publisher used when no broker is configured.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessEventBus creates a bus with an empty registry.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer implements Consumer.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes payload and dispatches it. Undecodable payloads and consumer
// failures are logged, never returned, so the outbox marks them published.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event, err := DecodeEnvelope(routingKey, payload)
	if err != nil {
		b.logger.Error("dropping undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}
	b.dispatch(ctx, event)
	return nil
}

// PublishEvent dispatches an already decoded envelope.
func (b *InProcessEventBus) PublishEvent(ctx context.Context, event *ConsumedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Dispatch(ctx, event)
}

func (b *InProcessEventBus) dispatch(ctx context.Context, event *ConsumedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return
	}
	b.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Registry returns the underlying registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}

// Start blocks until ctx is done; delivery happens inside Publish.
func (b *InProcessEventBus) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Close implements Publisher and Consumer.
func (b *InProcessEventBus) Close() error {
	return nil
}
