package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"farsreport/internal/config"
	"farsreport/internal/dataprocessing"
	"farsreport/internal/exporter"
	"farsreport/internal/files"
	"farsreport/internal/infrastructure"
	"farsreport/pkg/contracts/events"
)

// Summarizer builds month × year summaries.
type Summarizer interface {
	SummarizeWithResults(ctx context.Context, years []any) (*dataprocessing.Summary, error)
}

// Mapper renders state incident maps.
type Mapper interface {
	MapState(ctx context.Context, w io.Writer, state int, year any) (dataprocessing.MapResult, error)
}

// YearLister lists the years with an accident file.
type YearLister interface {
	AvailableYears() ([]int, error)
}

// Publisher receives pipeline progress messages.
type Publisher interface {
	Publish(ctx context.Context, msg events.Message)
}

// BuildOption configures BuildReportService.
type BuildOption func(*buildOptions)

type buildOptions struct {
	publisher  Publisher
	writerOpts []exporter.SummaryWriterOption
}

// WithPublisher pushes year and summary events to p.
func WithPublisher(p Publisher) BuildOption {
	return func(o *buildOptions) {
		o.publisher = p
	}
}

// WithWriterOptions configures the summary writer.
func WithWriterOptions(opts ...exporter.SummaryWriterOption) BuildOption {
	return func(o *buildOptions) {
		o.writerOpts = append(o.writerOpts, opts...)
	}
}

// ReportService is the entry point for summaries, maps and exports.
type ReportService struct {
	summarizer Summarizer
	mapper     Mapper
	years      YearLister
	writer     *exporter.SummaryWriter
	publisher  Publisher
	logger     *slog.Logger
}

// NewReportService creates a report service from its collaborators.
func NewReportService(summarizer Summarizer, mapper Mapper, years YearLister, writer *exporter.SummaryWriter, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if writer == nil {
		writer = exporter.NewSummaryWriter(logger)
	}
	return &ReportService{
		summarizer: summarizer,
		mapper:     mapper,
		years:      years,
		writer:     writer,
		logger:     logger.With(slog.String("component", "report_service")),
	}
}

// BuildReportService wires the file-backed pipeline for cfg. A nil
// providers value disables tracing and metrics.
func BuildReportService(cfg config.DataConfig, providers *infrastructure.OTelProviders, logger *slog.Logger, opts ...BuildOption) (*ReportService, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if providers == nil {
		providers = infrastructure.NoopProviders(logger)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	loader := dataprocessing.NewFileLoader(cfg.BaseDir, logger)
	multi := dataprocessing.NewMultiYearLoader(loader, logger,
		dataprocessing.WithConcurrency(cfg.Concurrency),
		dataprocessing.WithTracer(providers.Tracer),
		dataprocessing.WithMetrics(metrics),
		dataprocessing.WithObserver(yearEvents(o.publisher)),
	)

	svc := NewReportService(
		dataprocessing.NewYearSummarizer(multi, logger),
		dataprocessing.NewStateMapper(loader, exporter.NewSVGMapRenderer(), logger),
		files.NewDiscovery(cfg.BaseDir),
		exporter.NewSummaryWriter(logger, o.writerOpts...),
		logger,
	)
	svc.publisher = o.publisher
	return svc, nil
}

// yearEvents turns finished years into year:loaded and year:failed
// messages. A nil publisher yields a nil observer.
func yearEvents(p Publisher) dataprocessing.YearObserver {
	if p == nil {
		return nil
	}
	return func(ctx context.Context, r dataprocessing.YearResult) {
		ev := events.YearEvent{
			Year:     fmt.Sprintf("%v", r.Requested),
			Filename: r.Filename,
		}
		msgType := events.MessageTypeYearLoaded
		if r.OK() {
			ev.Rows = r.Table.Len()
		} else {
			msgType = events.MessageTypeYearFailed
			if r.Err != nil {
				ev.Error = r.Err.Error()
			}
		}
		p.Publish(ctx, events.NewMessage(msgType, infrastructure.GetTraceID(ctx), ev))
	}
}

// Summary summarizes the requested years. Years that fail to load are
// listed in the result rather than failing the call.
func (s *ReportService) Summary(ctx context.Context, years []string) (*dataprocessing.Summary, error) {
	summary, err := s.summarizer.SummarizeWithResults(ctx, toAny(years))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "summary built",
		slog.Int("requested", len(years)),
		slog.Int("years", summary.Table.NumCols()),
		slog.Int("months", summary.Table.NumRows()),
		slog.Any("failed_years", summary.FailedYears()))

	if s.publisher != nil {
		s.publisher.Publish(ctx, events.NewMessage(events.MessageTypeSummaryBuilt, infrastructure.GetTraceID(ctx), events.SummaryEvent{
			Years:       summary.Table.Years(),
			Months:      summary.Table.NumRows(),
			FailedYears: summary.FailedYears(),
		}))
	}
	return summary, nil
}

// WriteSummary summarizes years and writes the result to w in format.
func (s *ReportService) WriteSummary(ctx context.Context, w io.Writer, years []string, format exporter.Format) (*dataprocessing.Summary, error) {
	summary, err := s.Summary(ctx, years)
	if err != nil {
		return nil, err
	}
	if err := s.writer.Write(w, summary.Table, summary.FailedYears(), format); err != nil {
		return nil, err
	}
	return summary, nil
}

// ExportSummary summarizes years into the file at path; the extension
// selects the format.
func (s *ReportService) ExportSummary(ctx context.Context, path string, years []string) (*dataprocessing.Summary, error) {
	if _, err := exporter.FormatFromPath(path); err != nil {
		return nil, err
	}

	summary, err := s.Summary(ctx, years)
	if err != nil {
		return nil, err
	}
	if err := s.writer.WriteFile(ctx, path, summary.Table, summary.FailedYears()); err != nil {
		return nil, err
	}
	return summary, nil
}

// StateMap renders the incidents of state in year. The returned bytes are
// empty when nothing was plottable.
func (s *ReportService) StateMap(ctx context.Context, state int, year string) ([]byte, dataprocessing.MapResult, error) {
	var buf bytes.Buffer
	result, err := s.mapper.MapState(ctx, &buf, state, year)
	if err != nil {
		return nil, result, err
	}
	return buf.Bytes(), result, nil
}

// Years lists the years with an accident file, ascending.
func (s *ReportService) Years(ctx context.Context) ([]int, error) {
	years, err := s.years.AvailableYears()
	if err != nil {
		s.logger.WarnContext(ctx, "failed to list years", slog.String("error", err.Error()))
		return nil, err
	}
	return years, nil
}

// ParseYears splits a comma-separated year list, dropping blanks.
func ParseYears(raw string) []string {
	var years []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			years = append(years, part)
		}
	}
	return years
}

func toAny(years []string) []any {
	out := make([]any, len(years))
	for i, y := range years {
		out[i] = y
	}
	return out
}
