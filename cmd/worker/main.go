package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/shelfaware/pkg/app"
	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/config"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/pkg/telemetry"
	"github.com/ghuser/shelfaware/services/inventory/application/expiry"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
	domainevents "github.com/ghuser/shelfaware/services/inventory/domain/events"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/messaging"
)

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
		log.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryOpts := telemetry.OptionsFromConfig(cfg, "worker")
	otelShutdown, _, err := telemetry.Setup(ctx, telemetryOpts)
	if err != nil {
		return err
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg.SentryDSN, telemetryOpts); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	a, closeInfra, err := app.Bootstrap(ctx, cfg, log, app.Role{})
	if err != nil {
		return err
	}
	// The bus waits for in-flight handlers on close.
	defer closeInfra()

	if err := registerSubscribers(ctx, a); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	stopExpiry, err := startExpiryWorker(ctx, a)
	if err != nil {
		return fmt.Errorf("start expiry worker: %w", err)
	}
	defer stopExpiry()

	<-ctx.Done()
	log.Info("shutting down worker...")
	return nil
}

// registerSubscribers wires all domain event handlers.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	if a.Redis == nil {
		a.Logger.Info("redis not configured, item state cache warming disabled")
		return nil
	}
	warmer := messaging.NewCacheWarmer(cache.NewItemStateCache(a.Redis), a.Logger)

	errCh, err := a.EventBus.Subscribe(ctx, domainevents.TopicItemEventRecorded, warmer.Handle)
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", domainevents.TopicItemEventRecorded,
				"error", err,
			)
			telemetry.CaptureError(ctx, err, map[string]string{"topic": domainevents.TopicItemEventRecorded})
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{domainevents.TopicItemEventRecorded})
	return nil
}

// startExpiryWorker registers the expiry workflow on the configured task
// queue and schedules it as a cron. It is a no-op without a Temporal client.
func startExpiryWorker(ctx context.Context, a *app.Application) (func(), error) {
	if a.TemporalClient == nil {
		a.Logger.Info("temporal not configured, expiry scan disabled")
		return func() {}, nil
	}
	cfg := a.Config

	w, err := a.TemporalClient.NewWorker(cfg.TemporalTaskQueue)
	if err != nil {
		return nil, err
	}
	svcs := appsvcs.New(a)
	w.RegisterWorkflow(expiry.ScanWorkflow)
	w.RegisterActivity(&expiry.Activities{Expiry: svcs.Expiry})

	if err := w.Start(); err != nil {
		return nil, err
	}
	if err := a.TemporalClient.StartCron(ctx, expiry.WorkflowID, cfg.TemporalTaskQueue, cfg.ExpiryScanEvery, expiry.ScanWorkflow, cfg.ExpiryWindow); err != nil {
		w.Stop()
		return nil, err
	}
	a.Logger.Info("expiry scan scheduled",
		"task_queue", cfg.TemporalTaskQueue,
		"every", cfg.ExpiryScanEvery.String(),
		"window", cfg.ExpiryWindow.String(),
	)
	return w.Stop, nil
}
