package subscribers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pacer/pkg/observability"
)

// TrackingMetrics turns tracking events into counters.
type TrackingMetrics struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewTrackingMetrics creates a new TrackingMetrics subscriber.
func NewTrackingMetrics(metrics observability.Metrics, logger *slog.Logger) *TrackingMetrics {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingMetrics{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *TrackingMetrics) EventTypes() []string {
	return []string{"tracking.#"}
}

// statusChangedPayload mirrors the wire form of domain.TaskStatusChanged.
type statusChangedPayload struct {
	FromStatus domain.Status `json:"from_status"`
	ToStatus   domain.Status `json:"to_status"`
}

// Handle records the event.
func (s *TrackingMetrics) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))

	switch event.RoutingKey {
	case domain.RoutingKeyProjectCreated:
		s.metrics.Counter(observability.MetricProjectsCreated, 1)
	case domain.RoutingKeyTaskCreated:
		s.metrics.Counter(observability.MetricTasksCreated, 1)
	case domain.RoutingKeyTaskUpdated:
		s.metrics.Counter(observability.MetricTasksUpdated, 1)
	case domain.RoutingKeySnapshotUpserted:
		s.metrics.Counter(observability.MetricSnapshotsUpserts, 1)
	case domain.RoutingKeyTaskStatusChanged:
		var payload statusChangedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			s.logger.Warn("malformed status change payload",
				"event_id", event.EventID,
				"error", err,
			)
			return nil
		}
		s.metrics.Counter(observability.MetricStatusChanges, 1,
			observability.T("from", payload.FromStatus.String()),
			observability.T("to", payload.ToStatus.String()),
		)
		if payload.ToStatus.IsBehind() {
			s.logger.Info("task fell behind schedule",
				"task_id", event.AggregateID,
				"from", payload.FromStatus,
				"to", payload.ToStatus,
				"correlation_id", event.Metadata.CorrelationID,
			)
		}
	}
	return nil
}
