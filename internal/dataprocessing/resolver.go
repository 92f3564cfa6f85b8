package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"farsreport/pkg/contracts/domain"
)

// Accident file naming.
const (
	FilenamePrefix = "accident_"
	FilenameSuffix = ".csv.bz2"
)

// FilenameResolver maps a requested year to the name of its accident file.
type FilenameResolver struct {
	logger *slog.Logger
}

// NewFilenameResolver creates a resolver that reports coercion failures to logger.
func NewFilenameResolver(logger *slog.Logger) *FilenameResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilenameResolver{logger: logger}
}

// Resolve returns accident_<year>.csv.bz2. A year that cannot be coerced to
// an integer is logged at WARN and renders as NA.
func (r *FilenameResolver) Resolve(year any) string {
	return r.ResolveYear(r.Coerce(context.Background(), year))
}

// ResolveYear is Resolve for an already coerced year. It never logs.
func (r *FilenameResolver) ResolveYear(year domain.Year) string {
	return FilenameForYear(year)
}

// Coerce converts year to a domain.Year, warning once when it is not integer-like.
func (r *FilenameResolver) Coerce(ctx context.Context, year any) domain.Year {
	y, ok := domain.CoerceYear(year)
	if !ok {
		r.logger.WarnContext(ctx, "year could not be coerced to an integer",
			slog.String("year", fmt.Sprintf("%v", year)),
			slog.String("type", fmt.Sprintf("%T", year)))
	}
	return y
}

// FilenameForYear builds the file name for year.
func FilenameForYear(year domain.Year) string {
	return FilenamePrefix + year.String() + FilenameSuffix
}
