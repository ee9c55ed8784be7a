// Package cache provides the read-through cache used for portfolio-wide
// dashboard queries.
package cache

import (
	"context"
	"time"
)

// Portfolio keys. Project-scoped reads are never cached.
const (
	KeyPortfolioAlerts  = "alerts:portfolio"
	KeyPortfolioKPIs    = "kpis:portfolio"
	KeyPortfolioSummary = "summary:portfolio"

	DefaultTTL = 30 * time.Second
)

// PortfolioKeys lists every key invalidated after a tracking write.
var PortfolioKeys = []string{KeyPortfolioAlerts, KeyPortfolioKPIs, KeyPortfolioSummary}

// Cache stores JSON-serializable values under string keys.
type Cache interface {
	// Get decodes the value stored under key into dst. It reports false on
	// a miss or an expired entry.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Cache failures fall back to load and are never returned.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil {
		if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if c != nil {
		_ = c.Set(ctx, key, value, ttl)
	}
	return value, nil
}
