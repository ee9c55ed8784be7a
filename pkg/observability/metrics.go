package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metric names. PrometheusMetrics strips the "pacer." prefix and maps dots to
// underscores under the "pacer" namespace.
const (
	MetricOperationTotal    = "pacer.operation.total"
	MetricOperationDuration = "pacer.operation.duration"
	MetricOperationErrors   = "pacer.operation.errors"

	MetricProjectsCreated  = "pacer.projects.created"
	MetricTasksCreated     = "pacer.tasks.created"
	MetricTasksUpdated     = "pacer.tasks.updated"
	MetricStatusChanges    = "pacer.tasks.status_changes"
	MetricSnapshotsUpserts = "pacer.snapshots.upserts"

	MetricCacheHits   = "pacer.cache.hits"
	MetricCacheMisses = "pacer.cache.misses"
	MetricCacheErrors = "pacer.cache.errors"

	MetricEventsPublished  = "pacer.events.published"
	MetricEventsConsumed   = "pacer.events.consumed"
	MetricOutboxLagSeconds = "pacer.outbox.lag_seconds"
)

// Metrics records counters, gauges and durations. Tags become labels.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is one metric label.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag) {}
func (NoopMetrics) Gauge(string, float64, ...Tag) {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps observations in maps so tests can assert on them.
// Series are keyed by name and tag set; tag order does not matter.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[seriesKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[seriesKey(name, tags)] = value
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := seriesKey(name, tags)
	m.timings[key] = append(m.timings[key], duration)
}

// GetCounter returns the sum recorded for one series.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

// GetGauge returns the last value set for one series.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

// GetTimings returns a copy of the durations recorded for one series.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.timings[seriesKey(name, tags)])
}

func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, t.Key+"="+t.Value)
	}
	slices.Sort(parts)
	return name + "{" + strings.Join(parts, ",") + "}"
}
