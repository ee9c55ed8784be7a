package subscribers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
)

// CacheInvalidator drops the portfolio dashboard entries whenever a tracking
// event is dispatched.
type CacheInvalidator struct {
	cache   cache.Cache
	logger  *slog.Logger
	enabled bool
}

// NewCacheInvalidator creates a new cache invalidator.
func NewCacheInvalidator(c cache.Cache, logger *slog.Logger) *CacheInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{cache: c, logger: logger, enabled: true}
}

// SetEnabled enables or disables the invalidator.
func (s *CacheInvalidator) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// EventTypes returns the event types this subscriber handles.
func (s *CacheInvalidator) EventTypes() []string {
	return []string{"tracking.#"}
}

// Handle deletes every portfolio key.
func (s *CacheInvalidator) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if !s.enabled {
		return nil
	}
	if err := s.cache.Delete(ctx, cache.PortfolioKeys...); err != nil {
		return fmt.Errorf("failed to invalidate portfolio cache: %w", err)
	}
	s.logger.Debug("portfolio cache invalidated",
		"routing_key", event.RoutingKey,
		"aggregate_id", event.AggregateID,
	)
	return nil
}
