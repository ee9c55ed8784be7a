// Package eventbus carries tracking events from the outbox to consumers,
// either in process or through a RabbitMQ topic exchange.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/google/uuid"
)

// Publisher sends serialized envelopes to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// EventConsumer handles the events whose routing keys match its patterns.
// Patterns follow AMQP topic rules: "*" matches one word, "#" matches zero or
// more words, e.g. "tracking.task.*" or "tracking.#".
type EventConsumer interface {
	EventTypes() []string
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// Consumer is a long-running source of events.
type Consumer interface {
	Start(ctx context.Context) error
	RegisterConsumer(consumer EventConsumer)
	Close() error
}

// ConsumedEvent is the wire envelope of a domain event.
type ConsumedEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata carries tracing identifiers.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	CausationID   string `json:"causation_id,omitempty"`
}

// NewEnvelope wraps a domain event for transport.
func NewEnvelope(event domain.DomainEvent) (*ConsumedEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", event.RoutingKey(), err)
	}
	meta := event.Metadata()
	envelope := &ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}
	if meta.CorrelationID != uuid.Nil {
		envelope.Metadata.CorrelationID = meta.CorrelationID.String()
	}
	if meta.CausationID != uuid.Nil {
		envelope.Metadata.CausationID = meta.CausationID.String()
	}
	return envelope, nil
}

// DecodeEnvelope parses a published body. A missing routing key is taken
// from the transport.
func DecodeEnvelope(routingKey string, body []byte) (*ConsumedEvent, error) {
	event := &ConsumedEvent{}
	if err := json.Unmarshal(body, event); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return event, nil
}

// NoopPublisher discards everything it is given.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (NoopPublisher) Close() error                                  { return nil }
