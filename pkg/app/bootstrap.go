package app

import (
	"context"
	"fmt"

	"github.com/ghuser/shelfaware/migrations/inventory"
	"github.com/ghuser/shelfaware/pkg/auth"
	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/config"
	"github.com/ghuser/shelfaware/pkg/database"
	"github.com/ghuser/shelfaware/pkg/events"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/pkg/migrator"
	"github.com/ghuser/shelfaware/pkg/workflows"
)

// Role selects which optional pieces Bootstrap wires.
type Role struct {
	// Forward starts the outbox forwarder. Only one process kind runs it.
	Forward bool
	// Sessions builds the session store. The worker serves no HTTP.
	Sessions bool
}

// Bootstrap connects every backing service named in cfg and returns the
// Application plus a closer that releases them in reverse order. Postgres is
// required; Redis and Temporal are skipped when their address is empty.
func Bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger, role Role) (*Application, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(step string, err error) (*Application, func(), error) {
		closeAll()
		return nil, nil, fmt.Errorf("%s: %w", step, err)
	}

	a := &Application{Config: cfg, Logger: log}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fail("connect database", err)
	}
	closers = append(closers, pool.Close)
	a.Db = pool

	applied, err := migrator.Up(ctx, pool.DB(), inventory.FS)
	if err != nil {
		return fail("migrate", err)
	}
	if len(applied) > 0 {
		log.Info("migrations applied", "versions", applied)
	}

	bus, err := events.NewEventBus(pool.DB(), events.OptionsFromConfig(cfg, role.Forward), log)
	if err != nil {
		return fail("event bus", err)
	}
	closers = append(closers, func() {
		if err := bus.Close(); err != nil {
			log.Warn("event bus close", "error", err)
		}
	})
	a.EventBus = bus
	if role.Forward {
		if err := bus.StartForwarder(ctx); err != nil {
			return fail("start forwarder", err)
		}
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fail("connect redis", err)
		}
		closers = append(closers, func() { _ = rc.Close() })
		a.Redis = rc
	}

	if cfg.TemporalHostPort != "" {
		tc, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
		if err != nil {
			return fail("connect temporal", err)
		}
		closers = append(closers, tc.Close)
		a.TemporalClient = tc
	}

	if role.Sessions {
		a.SessionStore = auth.NewSessionStore(a.redisHandle(), auth.SessionOptionsFromConfig(cfg))
	}

	log.Info("infrastructure ready",
		"redis", a.Redis != nil,
		"temporal", a.TemporalClient != nil,
		"forwarder", role.Forward,
	)
	return a, closeAll, nil
}
