package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestPrometheusMetrics(t *testing.T) {
	t.Run("counter accumulates per label set", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewPrometheusMetrics("pacer", reg)

		m.Counter(MetricCacheHits, 1, T("key", "kpis:portfolio"))
		m.Counter(MetricCacheHits, 2, T("key", "kpis:portfolio"))
		m.Counter(MetricCacheHits, 1, T("key", "alerts:portfolio"))

		families := gather(t, reg)
		family, ok := families["pacer_cache_hits_total"]
		require.True(t, ok)
		require.Len(t, family.GetMetric(), 2)

		total := 0.0
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		assert.Equal(t, 4.0, total)
	})

	t.Run("gauge keeps the last value", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewPrometheusMetrics("pacer", reg)

		m.Gauge("pacer.outbox.pending", 5)
		m.Gauge("pacer.outbox.pending", 2)

		family := gather(t, reg)["pacer_outbox_pending"]
		require.NotNil(t, family)
		assert.Equal(t, 2.0, family.GetMetric()[0].GetGauge().GetValue())
	})

	t.Run("timing records seconds", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewPrometheusMetrics("pacer", reg)

		m.Timing(MetricOperationDuration, 1500*time.Millisecond, T("operation", "create_task"))

		family := gather(t, reg)["pacer_operation_duration_seconds"]
		require.NotNil(t, family)
		h := family.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(1), h.GetSampleCount())
		assert.InDelta(t, 1.5, h.GetSampleSum(), 0.0001)
	})

	t.Run("two instances share one registry", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		a := NewPrometheusMetrics("pacer", reg)
		b := NewPrometheusMetrics("pacer", reg)

		a.Counter(MetricEventsPublished, 1)
		b.Counter(MetricEventsPublished, 1)

		family := gather(t, reg)["pacer_events_published_total"]
		require.NotNil(t, family)
		assert.Equal(t, 2.0, family.GetMetric()[0].GetCounter().GetValue())
	})
}

func TestPromName(t *testing.T) {
	assert.Equal(t, "cache_hits", promName("pacer", "pacer.cache.hits"))
	assert.Equal(t, "db_query_duration", promName("pacer", "pacer.db.query_duration"))
	assert.Equal(t, "other_metric", promName("pacer", "other.metric"))
}
