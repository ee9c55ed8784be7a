package subscribers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/application/subscribers"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pacer/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct {
	cache.Cache
}

func (failingCache) Delete(context.Context, ...string) error { return errors.New("unavailable") }

func event(routingKey string, payload any) *eventbus.ConsumedEvent {
	raw, _ := json.Marshal(payload)
	return &eventbus.ConsumedEvent{
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  routingKey,
		OccurredAt:  time.Now(),
		Payload:     raw,
	}
}

func TestCacheInvalidator(t *testing.T) {
	ctx := context.Background()

	t.Run("clears portfolio keys on any tracking event", func(t *testing.T) {
		c := cache.NewMemoryCache(nil)
		for _, k := range cache.PortfolioKeys {
			require.NoError(t, c.Set(ctx, k, 1, time.Minute))
		}
		require.NoError(t, c.Set(ctx, "other", 1, time.Minute))

		bus := eventbus.NewInProcessEventBus(nil)
		bus.RegisterConsumer(subscribers.NewCacheInvalidator(c, nil))

		require.NoError(t, bus.PublishEvent(ctx, event(domain.RoutingKeySnapshotUpserted, map[string]any{})))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("disabled is a no-op", func(t *testing.T) {
		c := cache.NewMemoryCache(nil)
		require.NoError(t, c.Set(ctx, cache.KeyPortfolioKPIs, 1, time.Minute))

		inv := subscribers.NewCacheInvalidator(c, nil)
		inv.SetEnabled(false)
		require.NoError(t, inv.Handle(ctx, event(domain.RoutingKeyTaskUpdated, nil)))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("cache failure is returned", func(t *testing.T) {
		inv := subscribers.NewCacheInvalidator(failingCache{}, nil)
		assert.Error(t, inv.Handle(ctx, event(domain.RoutingKeyTaskUpdated, nil)))
	})

	t.Run("subscribes to every tracking key", func(t *testing.T) {
		inv := subscribers.NewCacheInvalidator(cache.NewMemoryCache(nil), nil)
		for _, key := range []string{domain.RoutingKeyProjectDeleted, domain.RoutingKeyTaskStatusChanged} {
			assert.True(t, eventbus.MatchTopic(inv.EventTypes()[0], key), key)
		}
	})
}

func TestTrackingMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewInMemoryMetrics()
	sub := subscribers.NewTrackingMetrics(metrics, nil)

	require.NoError(t, sub.Handle(ctx, event(domain.RoutingKeyTaskCreated, map[string]any{})))
	require.NoError(t, sub.Handle(ctx, event(domain.RoutingKeyTaskStatusChanged, map[string]any{
		"from_status": domain.StatusInProgress,
		"to_status":   domain.StatusCritical,
	})))
	require.NoError(t, sub.Handle(ctx, &eventbus.ConsumedEvent{
		RoutingKey: domain.RoutingKeyTaskStatusChanged,
		Payload:    json.RawMessage(`"not an object"`),
	}))

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricTasksCreated))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricStatusChanges,
		observability.T("from", domain.StatusInProgress.String()),
		observability.T("to", domain.StatusCritical.String()),
	))
	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricEventsConsumed,
		observability.T("routing_key", domain.RoutingKeyTaskStatusChanged),
	))
}
