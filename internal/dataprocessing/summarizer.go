package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"farsreport/internal/errors"
	"farsreport/pkg/contracts/domain"
)

// YearResultsLoader loads several years with per-year outcomes.
type YearResultsLoader interface {
	LoadYearResults(ctx context.Context, years []any) []YearResult
}

// Summary is a pivot together with the per-year outcomes it was built from.
type Summary struct {
	Table   *domain.SummaryTable
	Results []YearResult
}

// FailedYears lists the requested years that did not load, in input order.
func (s *Summary) FailedYears() []string {
	var failed []string
	for _, r := range s.Results {
		if !r.OK() {
			failed = append(failed, fmt.Sprintf("%v", r.Requested))
		}
	}
	return failed
}

// YearSummarizer turns requested years into a month × year count pivot.
type YearSummarizer struct {
	loader YearResultsLoader
	logger *slog.Logger
}

// NewYearSummarizer creates a summarizer over loader.
func NewYearSummarizer(loader YearResultsLoader, logger *slog.Logger) *YearSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &YearSummarizer{
		loader: loader,
		logger: logger.With(slog.String("component", "year_summarizer")),
	}
}

// Summarize loads years and counts incidents per (month, year). Months are
// rows and years are columns, both ascending; a combination with no
// incidents is a missing cell, not zero. Years that fail to load are left
// out. When nothing at all loads the result is an EMPTY_INPUT AppError.
func (s *YearSummarizer) Summarize(ctx context.Context, years []any) (*domain.SummaryTable, error) {
	summary, err := s.SummarizeWithResults(ctx, years)
	if err != nil {
		return nil, err
	}
	return summary.Table, nil
}

// SummarizeWithResults is Summarize that also returns the per-year outcomes.
func (s *YearSummarizer) SummarizeWithResults(ctx context.Context, years []any) (*Summary, error) {
	results := s.loader.LoadYearResults(ctx, years)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := make([]*domain.YearTable, 0, len(results))
	for _, r := range results {
		if r.Table != nil {
			tables = append(tables, r.Table)
		}
	}

	table, err := Pivot(tables)
	if err != nil {
		s.logger.WarnContext(ctx, "no incident data loaded",
			slog.Int("requested_years", len(years)))
		return nil, errors.NewEmptyInputError(len(years))
	}

	s.logger.DebugContext(ctx, "summarized incidents",
		slog.Int("requested_years", len(years)),
		slog.Int("loaded_years", len(tables)),
		slog.Int("months", table.NumRows()),
		slog.Int("years", table.NumCols()),
		slog.Any("rows_per_year", YearTotals(tables)))

	return &Summary{Table: table, Results: results}, nil
}

// Pivot groups the records of tables by (month, year) and counts them.
// Nil tables are skipped. It fails with ErrEmptyInput when there are no
// records at all.
func Pivot(tables []*domain.YearTable) (*domain.SummaryTable, error) {
	counts := make(map[domain.MonthYear]int)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, rec := range t.Records {
			counts[domain.MonthYear{Month: rec.Month, Year: rec.Year}]++
		}
	}
	if len(counts) == 0 {
		return nil, errors.ErrEmptyInput
	}
	return domain.NewSummaryTable(counts), nil
}

// YearTotals counts the records of tables per year. Tables for the same year
// add up, so the totals match the column totals of Pivot over the same input.
func YearTotals(tables []*domain.YearTable) map[int]int {
	totals := make(map[int]int)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, rec := range t.Records {
			totals[rec.Year]++
		}
	}
	return totals
}
