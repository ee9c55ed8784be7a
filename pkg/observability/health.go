package observability

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// rank orders statuses from best to worst.
func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is the result of a health check.
type HealthCheckResult struct {
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthChecker is a function that performs a health check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs the health checks of registered components.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	timeout  time.Duration
}

// NewHealthRegistry creates a new health registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{
		checkers: make(map[string]HealthChecker),
		timeout:  5 * time.Second,
	}
}

// Register adds a health checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Check runs every checker concurrently, each bounded by the registry timeout.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]HealthCheckResult, len(checkers))
		g       errgroup.Group
	)
	for name, checker := range checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			result := checker(checkCtx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()

			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// HealthReport aggregates component results into one status.
type HealthReport struct {
	Status     HealthStatus                 `json:"status"`
	Timestamp  time.Time                    `json:"timestamp"`
	Components map[string]HealthCheckResult `json:"components"`
}

// GetOverallHealth runs all checks. The overall status is the worst component status.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now(),
		Components: r.Check(ctx),
	}
	for _, result := range report.Components {
		if result.Status.rank() > report.Status.rank() {
			report.Status = result.Status
		}
	}
	return report
}

// pingChecker reports failure with the given status.
func pingChecker(component string, onFailure HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{
				Status:  onFailure,
				Message: component + " connection failed: " + err.Error(),
			}
		}
		return HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: component + " connection healthy",
		}
	}
}

// DatabaseHealthChecker reports the store unhealthy when ping fails.
func DatabaseHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("database", HealthStatusUnhealthy, ping)
}

// RedisHealthChecker reports degraded service when Redis is unreachable;
// reads fall back to misses.
func RedisHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("redis", HealthStatusDegraded, ping)
}

// RabbitMQHealthChecker reports degraded service when the broker is
// unreachable; events stay in the outbox.
func RabbitMQHealthChecker(check func(ctx context.Context) error) HealthChecker {
	return pingChecker("rabbitmq", HealthStatusDegraded, check)
}
