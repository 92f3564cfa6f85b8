package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"farsreport/internal/errors"
	"farsreport/internal/infrastructure"
	"farsreport/pkg/contracts/domain"
)

// DefaultConcurrency is the number of years loaded at once unless configured.
const DefaultConcurrency = 4

// MonthColumn is the column projected into IncidentRecord.Month.
const MonthColumn = "MONTH"

// YearResult is the outcome of loading one requested year. Exactly one of
// Table and Err is set.
type YearResult struct {
	Requested any
	Year      domain.Year
	Filename  string
	Table     *domain.YearTable
	Err       error
}

// OK reports whether the year loaded.
func (r YearResult) OK() bool {
	return r.Err == nil && r.Table != nil
}

// MultiYearLoader loads several years, isolating the failure of each.
type MultiYearLoader struct {
	resolver    *FilenameResolver
	loader      TableLoader
	logger      *slog.Logger
	concurrency int
	tracer      trace.Tracer
	metrics     *infrastructure.PipelineMetrics
	observers   []YearObserver
}

// YearObserver is told about every finished year, loaded or not. It is
// called from the loading goroutine and must be safe for concurrent use.
type YearObserver func(ctx context.Context, r YearResult)

// MultiYearOption configures a MultiYearLoader.
type MultiYearOption func(*MultiYearLoader)

// WithConcurrency caps how many years load at once. Values below 1 mean 1.
func WithConcurrency(n int) MultiYearOption {
	return func(m *MultiYearLoader) {
		if n < 1 {
			n = 1
		}
		m.concurrency = n
	}
}

// WithTracer wraps each year load in a span.
func WithTracer(t trace.Tracer) MultiYearOption {
	return func(m *MultiYearLoader) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithMetrics records each year load.
func WithMetrics(pm *infrastructure.PipelineMetrics) MultiYearOption {
	return func(m *MultiYearLoader) {
		m.metrics = pm
	}
}

// WithObserver adds an observer of finished years.
func WithObserver(o YearObserver) MultiYearOption {
	return func(m *MultiYearLoader) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// NewMultiYearLoader creates a loader reading files through loader.
func NewMultiYearLoader(loader TableLoader, logger *slog.Logger, opts ...MultiYearOption) *MultiYearLoader {
	if logger == nil {
		logger = slog.Default()
	}
	m := &MultiYearLoader{
		resolver:    NewFilenameResolver(logger),
		loader:      loader,
		logger:      logger.With(slog.String("component", "multi_year_loader")),
		concurrency: DefaultConcurrency,
		tracer:      tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadYearResults loads every requested year and returns one result per
// input, in input order. A failing year is logged at WARN and never stops
// the others.
func (m *MultiYearLoader) LoadYearResults(ctx context.Context, years []any) []YearResult {
	results := make([]YearResult, len(years))

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i, requested := range years {
		g.Go(func() error {
			results[i] = m.loadYear(ctx, requested)
			for _, observe := range m.observers {
				observe(ctx, results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// LoadYears returns the table of each requested year in input order, with
// nil in the slot of every year that failed.
func (m *MultiYearLoader) LoadYears(ctx context.Context, years []any) []*domain.YearTable {
	results := m.LoadYearResults(ctx, years)
	tables := make([]*domain.YearTable, len(results))
	for i, r := range results {
		tables[i] = r.Table
	}
	return tables
}

func (m *MultiYearLoader) loadYear(ctx context.Context, requested any) YearResult {
	start := time.Now()
	result := YearResult{Requested: requested}

	if err := ctx.Err(); err != nil {
		result.Err = err
		m.warn(ctx, result)
		return result
	}

	result.Year = m.resolver.Coerce(ctx, requested)
	result.Filename = m.resolver.ResolveYear(result.Year)

	ctx, span := m.tracer.Start(ctx, "dataprocessing.LoadYear",
		trace.WithAttributes(
			attribute.String("fars.year", result.Year.String()),
			attribute.String("fars.filename", result.Filename),
		))
	defer span.End()

	var dropped []int
	table, err := m.loader.Load(ctx, result.Filename)
	if err == nil {
		result.Table, dropped, err = projectIncidents(table, result.Year)
	}
	result.Err = err

	m.metrics.RecordYearLoad(ctx, result.Year.String(), result.Table.Len(), time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		m.warn(ctx, result)
		return result
	}

	if len(dropped) > 0 {
		m.logger.WarnContext(ctx, "dropped rows with MONTH out of range",
			slog.String("year", result.Year.String()),
			slog.String("filename", result.Filename),
			slog.Int("dropped_rows", len(dropped)),
			slog.Int("first_row", dropped[0]))
	}

	span.SetAttributes(
		attribute.Int("fars.rows", result.Table.Len()),
		attribute.Int("fars.dropped_rows", len(dropped)))
	return result
}

func (m *MultiYearLoader) warn(ctx context.Context, r YearResult) {
	m.logger.WarnContext(ctx, "failed to load year",
		slog.String("year", fmt.Sprintf("%v", r.Requested)),
		slog.String("filename", r.Filename),
		slog.String("error", r.Err.Error()))
}

// projectIncidents keeps the MONTH of every row, tagged with the requested
// year. Rows whose MONTH is outside 1..12 are left out and their 1-based row
// numbers returned.
func projectIncidents(t *Table, year domain.Year) (*domain.YearTable, []int, error) {
	if !year.Valid {
		return nil, nil, errors.NewAppValidationError("year is not an integer").
			WithContext("filename", t.Source)
	}

	months, err := t.Ints(MonthColumn)
	if err != nil {
		return nil, nil, err
	}

	var dropped []int
	records := make([]domain.IncidentRecord, 0, len(months))
	for i, month := range months {
		if month < 1 || month > 12 {
			dropped = append(dropped, i+1)
			continue
		}
		records = append(records, domain.IncidentRecord{Month: month, Year: year.Value})
	}

	return &domain.YearTable{Year: year, Source: t.Source, Records: records}, dropped, nil
}
