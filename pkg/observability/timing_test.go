package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer(t *testing.T) {
	m := NewInMemoryMetrics()
	route := T("route", "/api/v1/kpis")

	StartTimer("http.request").WithMetrics(m).WithTags(route).Stop()
	StartTimer("http.request").WithMetrics(m).WithTags(route).StopWithError(errors.New("boom"))

	op := T("operation", "http.request")
	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, route, op))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, route, op))
	assert.Len(t, m.GetTimings(MetricOperationDuration, route, op), 2)
}

func TestTimer_WithoutMetrics(t *testing.T) {
	assert.GreaterOrEqual(t, StartTimer("noop").StopWithError(errors.New("ignored")).Nanoseconds(), int64(0))
}

func TestTimeOperationResult(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: slog.LevelDebug, JSON: true, Output: &buf})
	m := NewInMemoryMetrics()
	ctx := WithCorrelationID(context.Background(), "corr-1")

	got, err := TimeOperationResult(ctx, logger, m, "kpis", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Contains(t, buf.String(), `"operation completed"`)
	assert.Contains(t, buf.String(), "corr-1")

	buf.Reset()
	_, err = TimeOperationResult(ctx, logger, m, "kpis", func() (int, error) { return 0, errors.New("db down") })
	assert.EqualError(t, err, "db down")
	assert.Contains(t, buf.String(), `"operation failed"`)
	assert.Contains(t, buf.String(), "db down")

	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, T("operation", "kpis")))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, T("operation", "kpis")))
}
