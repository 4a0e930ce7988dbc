package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
)

func TestInitializeOTel_PrometheusExposesBusinessMetrics(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	cfg := DefaultOTelConfig()

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	require.NotNil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Tracer)
	assert.True(t, logs.ContainsMessage("Metrics initialized"))

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordIngestion(ctx, "csv", 10, 2, 150*time.Millisecond)
	metrics.RecordReachWarning(ctx, "summary")
	metrics.RecordAnalytics(ctx, "pivot", time.Millisecond, errors.New("boom"))

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "ingestion_rows_accepted_total")
	assert.Contains(t, text, "reach_warnings_total")
	assert.Contains(t, text, "go_goroutines")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := &OTelConfig{ServiceName: ServiceName, TraceExporter: "none", MetricExporter: "none"}

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Tracer)

	_, err = CreateBusinessMetrics(providers.Meter)
	assert.NoError(t, err)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, nil)
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd"}, nil)
	assert.Error(t, err)
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordIngestion(context.Background(), "csv", 1, 0, time.Second)
		m.RecordReachWarning(context.Background(), "x")
		m.RecordAnalytics(context.Background(), "x", time.Second, nil)
	})
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestCollectSystemStats(t *testing.T) {
	stats := CollectSystemStats(time.Now().Add(-time.Minute))
	assert.Positive(t, stats.GoRoutines)
	assert.Positive(t, stats.CPUCount)
	assert.Equal(t, "1m0s", stats.Uptime)
}
