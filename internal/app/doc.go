// Package app wires the FARS report server together.
//
// NewApplication builds, in order: OpenTelemetry providers, the report and
// health services, the chi router with its middleware chain and the HTTP
// server. Run serves until the context is cancelled or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Middleware order: RequestID, RealIP, OTel, StructuredLogger, Recoverer,
// SecurityHeaders, RateLimiter, Timeout. /metrics is served outside the
// chain.
//
// Initialization errors are returned; the package never calls os.Exit.
package app
