package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"farsreport/pkg/contracts"
	api "farsreport/pkg/contracts/api/v1"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dataDir   string
	years     YearLister
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the readiness and liveness responses
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service for the data directory dataDir.
func NewHealthService(version, dataDir string, years YearLister, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		dataDir:   dataDir,
		years:     years,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health. The service is degraded when the
// data directory cannot be read.
func (hs *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: hs.version,
		DataDir: hs.dataDir,
	}

	years, err := hs.years.AvailableYears()
	if err != nil {
		hs.logger.WarnContext(ctx, "data directory unavailable",
			slog.String("data_dir", hs.dataDir),
			slog.String("error", err.Error()))
		resp.Status = "degraded"
		return resp
	}

	resp.DataDirOK = true
	resp.AvailableYears = len(years)
	return resp
}

// ReadinessCheck reports ready once at least one accident file exists.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	data := hs.checkDataHealth()
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]interface{}{"data": data},
	}
	if data.Status != "ready" {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns build information plus uptime.
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"api_version":  info.APIVersion,
		"data_format":  info.DataFormat,
		"prerelease":   contracts.IsPrerelease(),
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if _, err := os.Stat(hs.dataDir); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Data directory not accessible: %s", hs.dataDir),
		}
	}

	years, err := hs.years.AvailableYears()
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	if len(years) == 0 {
		return ServiceHealth{Status: "not_ready", Message: "No accident files found"}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d accident files available", len(years)),
	}
}
