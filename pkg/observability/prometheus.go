package observability

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exposes Metrics through a Prometheus registerer.
// Collectors are created on first use; the label set of a metric is fixed by
// the tag keys of its first observation.
type PrometheusMetrics struct {
	namespace  string
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a collector set registered on reg. A nil reg
// uses the default registerer.
func NewPrometheusMetrics(namespace string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		namespace:  namespace,
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      promName(m.namespace, name) + "_total",
			Help:      name,
		}, labelNames(tags))
		vec = registerOrExisting(m.registerer, vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	if c, err := vec.GetMetricWith(labels(tags)); err == nil {
		c.Add(float64(value))
	}
}

func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      promName(m.namespace, name),
			Help:      name,
		}, labelNames(tags))
		vec = registerOrExisting(m.registerer, vec)
		m.gauges[name] = vec
	}
	m.mu.Unlock()

	if g, err := vec.GetMetricWith(labels(tags)); err == nil {
		g.Set(value)
	}
}

// Timing records the duration in seconds.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.observe(name+".seconds", duration.Seconds(), tags)
}

func (m *PrometheusMetrics) observe(name string, value float64, tags []Tag) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      promName(m.namespace, name),
			Help:      name,
			Buckets:   prometheus.DefBuckets,
		}, labelNames(tags))
		vec = registerOrExisting(m.registerer, vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	if h, err := vec.GetMetricWith(labels(tags)); err == nil {
		h.Observe(value)
	}
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// promName turns "pacer.cache.hits" into "cache_hits" under namespace "pacer".
func promName(namespace, name string) string {
	name = strings.TrimPrefix(name, namespace+".")
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

func labelNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Key)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func labels(tags []Tag) prometheus.Labels {
	l := make(prometheus.Labels, len(tags))
	for _, t := range tags {
		l[t.Key] = t.Value
	}
	return l
}
