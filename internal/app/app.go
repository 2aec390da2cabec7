// Package app wires the upload dashboard server: configuration, logging,
// the normalization services, the chi router, and graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"investviz/internal/config"
	"investviz/internal/infrastructure"
	customMiddleware "investviz/internal/middleware"
	"investviz/internal/regions"
	"investviz/internal/services"
	"investviz/internal/summary"
	transport "investviz/internal/transport/http"

	"investviz/internal/normalize"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application holds the assembled server and its dependencies.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Router   chi.Router
	Server   *http.Server
	Pipeline *services.PipelineService
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	catalog := regions.NewCatalog(cfg.Paths.RegionsFile, logger)
	matcher := regions.NewMatcher(catalog.Entries())
	normalizer := normalize.NewNormalizer(matcher, logger, cfg.Pipeline.FlagOutliers)
	aggregator := summary.NewAggregator(cfg.Pipeline.TopMeasures, matcher, logger)
	pipeline := services.NewPipelineService(cfg, normalizer, aggregator, logger)

	a := &Application{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
	}
	a.setupRouter()
	a.createServer()

	return a, nil
}

// setupRouter configures middleware and routes. Ordering: RequestID first so
// every later middleware and handler sees the trace ID, then logging, then
// recovery, then rate limiting.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))

	if a.Config.Server.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/health", transport.NewHealthHandler(Version).Routes())
		r.Mount("/uploads", transport.NewUploadHandler(a.Pipeline, a.Config, a.Logger).Routes())
		r.Mount("/runs", transport.NewRunHandler(a.Config, a.Logger).Routes())
	})

	// Prometheus scrape endpoint stays outside the JSON content-type group.
	r.Handle("/metrics", transport.MetricsHandler())

	r.Mount("/", transport.DashboardHandler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving in the background. A server error cancels the
// application context instead of exiting the process.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("runs_dir", a.Config.Paths.RunsDir))

	if err := os.MkdirAll(a.Config.Paths.RunsDir, 0755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "server started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the server.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
