package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

type registration struct {
	pattern  string
	consumer EventConsumer
}

// ConsumerRegistry routes events to consumers by topic pattern.
type ConsumerRegistry struct {
	mu            sync.RWMutex
	registrations []registration
	logger        *slog.Logger
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds consumer under each of its patterns.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pattern := range consumer.EventTypes() {
		r.registrations = append(r.registrations, registration{pattern: pattern, consumer: consumer})
		r.logger.Debug("registered consumer", "pattern", pattern)
	}
}

// GetConsumers returns the consumers matching routingKey, each at most once,
// in registration order.
func (r *ConsumerRegistry) GetConsumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []EventConsumer
	seen := make(map[EventConsumer]bool)
	for _, reg := range r.registrations {
		if seen[reg.consumer] || !MatchTopic(reg.pattern, routingKey) {
			continue
		}
		seen[reg.consumer] = true
		matched = append(matched, reg.consumer)
	}
	return matched
}

// Patterns returns every registered pattern.
func (r *ConsumerRegistry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := make([]string, 0, len(r.registrations))
	for _, reg := range r.registrations {
		patterns = append(patterns, reg.pattern)
	}
	return patterns
}

// Dispatch delivers event to every matching consumer. All consumers run even
// when one fails; their errors are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.GetConsumers(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MatchTopic reports whether routingKey matches an AMQP topic pattern.
func MatchTopic(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(key); i++ {
			if matchWords(pattern[1:], key[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
