package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskRenamed struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func TestNewEnvelope(t *testing.T) {
	occurred := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	correlation := uuid.New()
	event := &taskRenamed{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "Task", "tracking.task.updated", occurred),
		Name:      "Wiring",
	}
	event.SetMetadata(domain.EventMetadata{CorrelationID: correlation})

	envelope, err := eventbus.NewEnvelope(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), envelope.EventID)
	assert.Equal(t, event.AggregateID(), envelope.AggregateID)
	assert.Equal(t, "Task", envelope.AggregateType)
	assert.Equal(t, "tracking.task.updated", envelope.RoutingKey)
	assert.Equal(t, occurred, envelope.OccurredAt)
	assert.JSONEq(t, `{"name":"Wiring"}`, string(envelope.Payload))
	assert.Equal(t, correlation.String(), envelope.Metadata.CorrelationID)
	assert.Empty(t, envelope.Metadata.CausationID)
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("fills missing routing key", func(t *testing.T) {
		event, err := eventbus.DecodeEnvelope("tracking.task.created", []byte(`{"event_id":"`+uuid.NewString()+`"}`))
		require.NoError(t, err)
		assert.Equal(t, "tracking.task.created", event.RoutingKey)
	})

	t.Run("keeps embedded routing key", func(t *testing.T) {
		event, err := eventbus.DecodeEnvelope("other", []byte(`{"routing_key":"tracking.task.deleted"}`))
		require.NoError(t, err)
		assert.Equal(t, "tracking.task.deleted", event.RoutingKey)
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		_, err := eventbus.DecodeEnvelope("x", []byte("not json"))
		assert.Error(t, err)
	})
}

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &recordingConsumer{patterns: []string{"tracking.task.*"}}
	bus.RegisterConsumer(consumer)

	envelope := &eventbus.ConsumedEvent{
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  "tracking.task.created",
	}
	body, err := json.Marshal(envelope)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "tracking.task.created", body))

	require.Len(t, consumer.events, 1)
	assert.Equal(t, envelope.EventID, consumer.events[0].EventID)
}

func TestInProcessEventBus_SwallowsFailures(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	bus.RegisterConsumer(&recordingConsumer{patterns: []string{"#"}, err: errors.New("boom")})

	assert.NoError(t, bus.Publish(context.Background(), "tracking.task.created", []byte(`{}`)))
	assert.NoError(t, bus.Publish(context.Background(), "tracking.task.created", []byte("garbage")))
}

func TestInProcessEventBus_PublishEvent(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	boom := errors.New("boom")
	bus.RegisterConsumer(&recordingConsumer{patterns: []string{"#"}, err: boom})

	err := bus.PublishEvent(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "tracking.project.deleted"})
	assert.ErrorIs(t, err, boom)
}

func TestInProcessEventBus_Start(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, bus.Start(ctx), context.Canceled)
	assert.NoError(t, bus.Close())
}
