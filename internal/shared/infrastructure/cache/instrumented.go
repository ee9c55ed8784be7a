package cache

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// InstrumentedCache records hit, miss and error counters around a Cache.
type InstrumentedCache struct {
	next    Cache
	metrics observability.Metrics
}

// NewInstrumentedCache wraps next.
func NewInstrumentedCache(next Cache, metrics observability.Metrics) *InstrumentedCache {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &InstrumentedCache{next: next, metrics: metrics}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	ok, err := c.next.Get(ctx, key, dst)
	tag := observability.T("key", key)
	switch {
	case err != nil:
		c.metrics.Counter(observability.MetricCacheErrors, 1, tag, observability.T("op", "get"))
	case ok:
		c.metrics.Counter(observability.MetricCacheHits, 1, tag)
	default:
		c.metrics.Counter(observability.MetricCacheMisses, 1, tag)
	}
	return ok, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	err := c.next.Set(ctx, key, value, ttl)
	if err != nil {
		c.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("key", key), observability.T("op", "set"))
	}
	return err
}

func (c *InstrumentedCache) Delete(ctx context.Context, keys ...string) error {
	err := c.next.Delete(ctx, keys...)
	if err != nil {
		c.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("key", "*"), observability.T("op", "delete"))
	}
	return err
}
