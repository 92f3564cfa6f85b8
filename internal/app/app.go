package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"farsreport/internal/config"
	"farsreport/internal/errors"
	"farsreport/internal/files"
	"farsreport/internal/infrastructure"
	customMiddleware "farsreport/internal/middleware"
	"farsreport/internal/services"
	"farsreport/internal/validation"
	handlers "farsreport/internal/transport/http"
	"farsreport/internal/websocket"
	"farsreport/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	ErrorHandler  *errors.ErrorHandler
	WebSocketHub  *websocket.Hub

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report *services.ReportService
	Health *services.HealthService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("configuration is required", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  errors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
		WebSocketHub:  websocket.NewHub(logger),
	}

	// a missing data directory degrades health rather than failing startup
	if _, err := validation.NewFileValidator(logger).ValidateDataDirectory(cfg.Data.BaseDir); err != nil {
		logger.Warn("data directory unavailable", slog.String("error", err.Error()))
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := a.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	a.createServer()

	logger.Info("Application initialized",
		slog.String("version", contracts.Version),
		slog.String("data_dir", cfg.Data.BaseDir),
		slog.Int("concurrency", cfg.Data.Concurrency))

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	report, err := services.BuildReportService(a.Config.Data, a.OTelProviders, a.Logger,
		services.WithPublisher(a.WebSocketHub))
	if err != nil {
		return fmt.Errorf("report service: %w", err)
	}

	health := services.NewHealthService(
		contracts.Version,
		a.Config.Data.BaseDir,
		files.NewDiscovery(a.Config.Data.BaseDir),
		a.Logger,
	)

	a.Services = &ServiceContainer{Report: report, Health: health}
	return nil
}

// setupRouter builds the middleware chain and mounts the handlers
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if rl := a.Config.Server.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// long-lived; kept out of the timeout and logging group
	r.Get("/ws", websocket.Handler(a.WebSocketHub, a.Logger))

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	reportHandler := handlers.NewReportHandler(a.Services.Report, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)
		})

		r.Mount("/v1", reportHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Address(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Addr returns the address the server listens on once started.
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Start binds the listener and serves in the background. Bind errors are
// returned; later serve errors are reported by Wait.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.mu.Lock()
	a.listener = ln
	a.serveErr = make(chan error, 1)
	a.mu.Unlock()

	a.WebSocketHub.Start()

	go func() {
		err := a.Server.Serve(ln)
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.Logger.InfoContext(ctx, "Server started",
		slog.String("address", ln.Addr().String()),
		slog.String("version", contracts.Version))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return stderrors.Join(errs...)
}

// Run serves until ctx is cancelled or an interrupt arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Received shutdown signal")
	case err, ok := <-a.serveErr:
		if ok {
			serveErr = err
		}
	}

	return stderrors.Join(serveErr, a.Stop(context.Background()))
}
