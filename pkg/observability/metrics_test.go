package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Metrics = NoopMetrics{}
	_ Metrics = (*InMemoryMetrics)(nil)
	_ Metrics = (*PrometheusMetrics)(nil)
)

func TestInMemoryMetrics_SeriesIgnoreTagOrder(t *testing.T) {
	m := NewInMemoryMetrics()
	backend := T("backend", "redis")
	key := T("key", "portfolio")

	m.Counter(MetricCacheHits, 1, backend, key)
	m.Counter(MetricCacheHits, 2, key, backend)
	m.Counter(MetricCacheHits, 5, backend)

	assert.Equal(t, int64(3), m.GetCounter(MetricCacheHits, key, backend))
	assert.Equal(t, int64(5), m.GetCounter(MetricCacheHits, backend))
	assert.Zero(t, m.GetCounter(MetricCacheHits))
}

func TestInMemoryMetrics_GaugeKeepsLastValue(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Gauge(MetricOutboxLagSeconds, 12.5)
	m.Gauge(MetricOutboxLagSeconds, 0.5)

	assert.Equal(t, 0.5, m.GetGauge(MetricOutboxLagSeconds))
}

func TestInMemoryMetrics_TimingsAreCopied(t *testing.T) {
	m := NewInMemoryMetrics()
	op := T("operation", "snapshot.upsert")

	m.Timing(MetricOperationDuration, 10*time.Millisecond, op)
	m.Timing(MetricOperationDuration, 30*time.Millisecond, op)

	got := m.GetTimings(MetricOperationDuration, op)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 30 * time.Millisecond}, got)

	got[0] = 0
	assert.Equal(t, 10*time.Millisecond, m.GetTimings(MetricOperationDuration, op)[0])
}

func TestInMemoryMetrics_Concurrent(t *testing.T) {
	m := NewInMemoryMetrics()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Counter(MetricSnapshotsUpserts, 1, T("created", "true"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.GetCounter(MetricSnapshotsUpserts, T("created", "true")))
}

func TestSeriesKey(t *testing.T) {
	assert.Equal(t, "pacer.tasks.created", seriesKey(MetricTasksCreated, nil))
	assert.Equal(t,
		seriesKey(MetricStatusChanges, []Tag{T("from", "pending"), T("to", "done")}),
		seriesKey(MetricStatusChanges, []Tag{T("to", "done"), T("from", "pending")}),
	)
	assert.NotEqual(t,
		seriesKey(MetricStatusChanges, []Tag{T("from", "pending")}),
		seriesKey(MetricStatusChanges, []Tag{T("to", "pending")}),
	)
}
