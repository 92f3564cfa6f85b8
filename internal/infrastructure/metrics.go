package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

// PipelineMetrics instruments yearly file loading.
type PipelineMetrics struct {
	YearsLoaded      metric.Int64Counter
	YearsFailed      metric.Int64Counter
	RowsLoaded       metric.Int64Counter
	YearLoadDuration metric.Float64Histogram
}

// NewPipelineMetrics registers the loader instruments on meter. A nil meter
// yields instruments that record nothing.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(InstrumentationName)
	}

	yearsLoaded, err := meter.Int64Counter(
		"fars_years_loaded",
		metric.WithDescription("Yearly accident files loaded successfully"),
	)
	if err != nil {
		return nil, err
	}

	yearsFailed, err := meter.Int64Counter(
		"fars_years_failed",
		metric.WithDescription("Yearly accident files that failed to load"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"fars_rows_loaded",
		metric.WithDescription("Incident rows read from accident files"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"fars_year_load_duration",
		metric.WithDescription("Time spent loading one yearly accident file"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		YearsLoaded:      yearsLoaded,
		YearsFailed:      yearsFailed,
		RowsLoaded:       rowsLoaded,
		YearLoadDuration: duration,
	}, nil
}

// RecordYearLoad records the outcome of loading one year.
func (m *PipelineMetrics) RecordYearLoad(ctx context.Context, year string, rows int, d time.Duration, err error) {
	if m == nil {
		return
	}

	yearAttr := attribute.String("year", year)
	status := "success"
	if err != nil {
		status = "failure"
		m.YearsFailed.Add(ctx, 1, metric.WithAttributes(yearAttr))
	} else {
		m.YearsLoaded.Add(ctx, 1, metric.WithAttributes(yearAttr))
		m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(yearAttr))
	}
	m.YearLoadDuration.Record(ctx, d.Seconds(), metric.WithAttributes(yearAttr, attribute.String("status", status)))
}

// HTTPMetrics instruments the HTTP server.
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics registers the HTTP instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(InstrumentationName)
	}

	requests, err := meter.Int64Counter(
		"http_server_requests",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"http_server_request_duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		RequestsTotal:   requests,
		RequestDuration: duration,
		ActiveRequests:  active,
	}, nil
}
