package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farsreport/internal/config"
)

func testTelemetryConfig() config.TelemetryConfig {
	cfg := config.Default().Telemetry
	cfg.Environment = "test"
	return cfg
}

func TestNoopProviders(t *testing.T) {
	p := NoopProviders(nil)
	require.NotNil(t, p.Tracer)
	require.NotNil(t, p.Meter)
	assert.Nil(t, p.PrometheusHTTP)

	ctx, span := p.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitializeOTel(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.EnableTracing = true

	var traces bytes.Buffer
	p, err := InitializeOTel(cfg, "0.0.0-test", &traces, nil)
	require.NoError(t, err)
	require.NotNil(t, p.TracerProvider)
	require.NotNil(t, p.MeterProvider)
	require.NotNil(t, p.PrometheusHTTP)

	ctx, span := p.Tracer.Start(context.Background(), "load year")
	assert.Len(t, TraceIDFromContext(ctx), 32)
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, traces.String(), "load year")
}

func TestInitializeOTelUnsupportedExporter(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "otlp"

	_, err := InitializeOTel(cfg, "test", io.Discard, nil)
	assert.Error(t, err)

	cfg = testTelemetryConfig()
	cfg.MetricExporter = "statsd"
	_, err = InitializeOTel(cfg, "test", io.Discard, nil)
	assert.Error(t, err)
}

func TestInitializeOTelDisabled(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.EnableMetrics = false
	cfg.EnableTracing = false

	p, err := InitializeOTel(cfg, "test", io.Discard, nil)
	require.NoError(t, err)
	assert.Nil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	assert.Nil(t, p.PrometheusHTTP)
}

func TestPipelineMetricsExported(t *testing.T) {
	p, err := InitializeOTel(testTelemetryConfig(), "test", io.Discard, nil)
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	m, err := NewPipelineMetrics(p.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordYearLoad(ctx, "2013", 32, 15*time.Millisecond, nil)
	m.RecordYearLoad(ctx, "9999", 0, time.Millisecond, errors.New("missing"))

	h, err := NewHTTPMetrics(p.Meter)
	require.NoError(t, err)
	h.RequestsTotal.Add(ctx, 1)

	rec := httptest.NewRecorder()
	p.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "fars_years_loaded_total")
	assert.Contains(t, body, "fars_years_failed_total")
	assert.Contains(t, body, "fars_rows_loaded_total")
	assert.Contains(t, body, "fars_year_load_duration")
	assert.Contains(t, body, "http_server_requests_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestPipelineMetricsNilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordYearLoad(context.Background(), "2013", 1, time.Second, nil)
	})

	noop, err := NewPipelineMetrics(nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		noop.RecordYearLoad(context.Background(), "2013", 1, time.Second, nil)
	})
}
