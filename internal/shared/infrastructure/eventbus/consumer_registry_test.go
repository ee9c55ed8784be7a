package eventbus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConsumer struct {
	patterns []string
	events   []*eventbus.ConsumedEvent
	err      error
}

func (c *recordingConsumer) EventTypes() []string { return c.patterns }

func (c *recordingConsumer) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	c.events = append(c.events, event)
	return c.err
}

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"tracking.task.created", "tracking.task.created", true},
		{"tracking.task.created", "tracking.task.updated", false},
		{"tracking.task.*", "tracking.task.status_changed", true},
		{"tracking.*", "tracking.task.created", false},
		{"tracking.#", "tracking.task.created", true},
		{"tracking.#", "tracking", true},
		{"#", "tracking.snapshot.deleted", true},
		{"#.deleted", "tracking.project.deleted", true},
		{"tracking.*.deleted", "tracking.snapshot.upserted", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, eventbus.MatchTopic(tt.pattern, tt.key))
		})
	}
}

func TestConsumerRegistry_GetConsumers(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(nil)

	tasks := &recordingConsumer{patterns: []string{"tracking.task.*"}}
	all := &recordingConsumer{patterns: []string{"tracking.#", "tracking.task.created"}}
	registry.Register(tasks)
	registry.Register(all)

	t.Run("deduplicates consumers with overlapping patterns", func(t *testing.T) {
		consumers := registry.GetConsumers("tracking.task.created")
		require.Len(t, consumers, 2)
		assert.Same(t, tasks, consumers[0])
		assert.Same(t, all, consumers[1])
	})

	t.Run("wildcard only", func(t *testing.T) {
		consumers := registry.GetConsumers("tracking.snapshot.upserted")
		require.Len(t, consumers, 1)
		assert.Same(t, all, consumers[0])
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, registry.GetConsumers("billing.invoice.paid"))
	})

	assert.ElementsMatch(t, []string{"tracking.task.*", "tracking.#", "tracking.task.created"}, registry.Patterns())
}

func TestConsumerRegistry_Dispatch(t *testing.T) {
	t.Run("delivers to every matching consumer", func(t *testing.T) {
		registry := eventbus.NewConsumerRegistry(nil)
		c1 := &recordingConsumer{patterns: []string{"tracking.task.updated"}}
		c2 := &recordingConsumer{patterns: []string{"tracking.#"}}
		registry.Register(c1)
		registry.Register(c2)

		event := &eventbus.ConsumedEvent{EventID: uuid.New(), RoutingKey: "tracking.task.updated"}
		require.NoError(t, registry.Dispatch(context.Background(), event))

		assert.Len(t, c1.events, 1)
		assert.Len(t, c2.events, 1)
		assert.Equal(t, event.EventID, c2.events[0].EventID)
	})

	t.Run("keeps going after a failure and joins errors", func(t *testing.T) {
		registry := eventbus.NewConsumerRegistry(nil)
		boom := errors.New("boom")
		failing := &recordingConsumer{patterns: []string{"tracking.#"}, err: boom}
		ok := &recordingConsumer{patterns: []string{"tracking.#"}}
		registry.Register(failing)
		registry.Register(ok)

		err := registry.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "tracking.project.created"})

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, ok.events, 1)
	})

	t.Run("no consumers is not an error", func(t *testing.T) {
		registry := eventbus.NewConsumerRegistry(nil)
		assert.NoError(t, registry.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "tracking.task.deleted"}))
	})
}
