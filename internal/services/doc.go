// Package services holds the application services shared by the HTTP API
// and the CLI.
//
// ReportService fronts the dataprocessing pipeline: it summarizes years,
// renders state maps, lists the years with an accident file and writes
// summary exports. HealthService reports liveness, readiness and version
// information.
//
// Services receive their collaborators and a *slog.Logger through their
// constructors:
//
//	svc, err := services.BuildReportService(cfg.Data, providers, logger)
//	summary, err := svc.Summary(ctx, []string{"2013", "2014"})
//
// Errors are returned unchanged from the pipeline so callers can match them
// with errors.Is against the sentinels in internal/errors.
package services
