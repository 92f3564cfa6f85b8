package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"farsreport/internal/dataprocessing"
	"farsreport/internal/exporter"
	"farsreport/internal/services"
	api "farsreport/pkg/contracts/api/v1"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Summary(ctx context.Context, years []string) (*dataprocessing.Summary, error) {
	args := m.Called(ctx, years)
	s, _ := args.Get(0).(*dataprocessing.Summary)
	return s, args.Error(1)
}

func (m *mockReportService) WriteSummary(ctx context.Context, w io.Writer, years []string, format exporter.Format) (*dataprocessing.Summary, error) {
	args := m.Called(ctx, w, years, format)
	if fn, ok := args.Get(2).(func(io.Writer)); ok {
		fn(w)
	}
	s, _ := args.Get(0).(*dataprocessing.Summary)
	return s, args.Error(1)
}

func (m *mockReportService) StateMap(ctx context.Context, state int, year string) ([]byte, dataprocessing.MapResult, error) {
	args := m.Called(ctx, state, year)
	svg, _ := args.Get(0).([]byte)
	return svg, args.Get(1).(dataprocessing.MapResult), args.Error(2)
}

func (m *mockReportService) Years(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	years, _ := args.Get(0).([]int)
	return years, args.Error(1)
}

type mockHealthService struct {
	mock.Mock
}

func (m *mockHealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	return m.Called(ctx).Get(0).(api.HealthResponse)
}

func (m *mockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *mockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
