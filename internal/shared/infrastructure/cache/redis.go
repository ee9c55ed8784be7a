package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// RedisConfig configures the Redis cache and its circuit breaker.
type RedisConfig struct {
	// Prefix namespaces every key, e.g. "pacer:cache:".
	Prefix string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the consecutive failures that open the breaker.
	FailureThreshold uint32
}

// DefaultRedisConfig returns the default Redis cache configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Prefix:           "pacer:cache:",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// RedisCache stores JSON values in Redis behind a circuit breaker. While the
// breaker is open, reads miss and writes are dropped.
type RedisCache struct {
	client  redis.Cmdable
	breaker *gobreaker.CircuitBreaker[[]byte]
	prefix  string
	logger  *slog.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client redis.Cmdable, config RedisConfig, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RedisCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		prefix:  config.Prefix,
		logger:  logger,
	}
}

func (c *RedisCache) namespaceKey(key string) string {
	return c.prefix + key
}

// BreakerState reports the current breaker state.
func (c *RedisCache) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.client.Get(ctx, c.namespaceKey(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		if isBreakerOpen(err) {
			c.logger.Debug("cache read skipped, breaker open", "key", key)
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, c.namespaceKey(key), data, ttl).Err()
	})
	if err != nil {
		if isBreakerOpen(err) {
			c.logger.Debug("cache write dropped, breaker open", "key", key)
			return nil
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = c.namespaceKey(key)
	}

	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, full...).Err()
	})
	if err != nil {
		if isBreakerOpen(err) {
			c.logger.Warn("cache delete dropped, breaker open", "keys", keys)
			return nil
		}
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
