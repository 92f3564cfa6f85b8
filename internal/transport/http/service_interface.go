package http

import (
	"context"
	"io"

	"farsreport/internal/dataprocessing"
	"farsreport/internal/exporter"
	"farsreport/internal/services"
	api "farsreport/pkg/contracts/api/v1"
)

// ReportServiceInterface defines the report operations the API exposes.
type ReportServiceInterface interface {
	Summary(ctx context.Context, years []string) (*dataprocessing.Summary, error)
	WriteSummary(ctx context.Context, w io.Writer, years []string, format exporter.Format) (*dataprocessing.Summary, error)
	StateMap(ctx context.Context, state int, year string) ([]byte, dataprocessing.MapResult, error)
	Years(ctx context.Context) ([]int, error)
}

// HealthServiceInterface defines the health operations.
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) api.HealthResponse
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

var (
	_ ReportServiceInterface = (*services.ReportService)(nil)
	_ HealthServiceInterface = (*services.HealthService)(nil)
)
