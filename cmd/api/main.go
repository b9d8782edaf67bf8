package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/shelfaware/docs/swagger"
	"github.com/ghuser/shelfaware/pkg/app"
	"github.com/ghuser/shelfaware/pkg/config"
	"github.com/ghuser/shelfaware/pkg/httpx"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/pkg/telemetry"
	inventoryApi "github.com/ghuser/shelfaware/services/inventory/application/api"
)

// @title			ShelfAware API
// @version		1.0
// @description	Household inventory: items, RFID tags, presence events and image versions.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	if err := run(cfg, log); err != nil {
		log.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryOpts := telemetry.OptionsFromConfig(cfg, "api")
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, telemetryOpts)
	if err != nil {
		return err
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg.SentryDSN, telemetryOpts); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	a, closeInfra, err := app.Bootstrap(ctx, cfg, log, app.Role{Forward: true, Sessions: true})
	if err != nil {
		return err
	}
	defer closeInfra()

	srv := httpx.NewServer(cfg.HTTPAddr, newRouter(a, metricsHandler))
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "auth_required", cfg.AuthRequired)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// newRouter mounts operational endpoints at the root and the inventory
// API under /api.
func newRouter(a *app.Application, metrics http.Handler) http.Handler {
	cfg := a.Config
	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		httpx.Middlewares{
			Recovery: logger.Recovery(a.Logger),
			Sentry:   telemetry.SentryMiddleware(),
			OTel:     otelhttp.NewMiddleware(cfg.ServiceName),
			Logger:   logger.Middleware(a.Logger),
		},
	)

	checks := httpx.HealthChecks{Database: a.Db, EventBus: a.EventBus}
	if a.Redis != nil {
		checks.Redis = a.Redis
	}
	if a.TemporalClient != nil {
		checks.Temporal = a.TemporalClient
	}
	r.Get("/health", httpx.HealthHandler(checks))
	r.Handle("/metrics", metrics)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		inventoryApi.InventoryRoutes(r, a)
	})
	return r
}
