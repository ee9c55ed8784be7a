package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation. Stopping it records the duration and a call
// count under MetricOperationDuration and MetricOperationTotal, plus
// MetricOperationErrors when the operation failed.
type Timer struct {
	operation string
	start     time.Time
	metrics   Metrics
	tags      []Tag
}

// StartTimer starts timing operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// WithMetrics sets the collector the timer reports to.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags adds labels to every metric the timer records.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records a successful run.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError records a run that failed when err is non-nil.
func (t *Timer) StopWithError(err error) time.Duration {
	d := time.Since(t.start)
	if t.metrics == nil {
		return d
	}

	tags := make([]Tag, 0, len(t.tags)+1)
	tags = append(tags, t.tags...)
	tags = append(tags, T("operation", t.operation))

	t.metrics.Timing(MetricOperationDuration, d, tags...)
	t.metrics.Counter(MetricOperationTotal, 1, tags...)
	if err != nil {
		t.metrics.Counter(MetricOperationErrors, 1, tags...)
	}
	return d
}

// TimeOperationResult runs fn under a Timer. Failures are logged at error
// level and successes at debug level when logger is set.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation).WithMetrics(metrics)

	result, err := fn()
	d := timer.StopWithError(err)

	if logger != nil {
		if err != nil {
			logger.ErrorContext(ctx, "operation failed",
				"operation", operation,
				"duration_ms", d.Milliseconds(),
				"error", err,
			)
		} else {
			logger.DebugContext(ctx, "operation completed",
				"operation", operation,
				"duration_ms", d.Milliseconds(),
			)
		}
	}
	return result, err
}
