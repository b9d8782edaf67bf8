// Command shelfctl is the operator CLI: schema migrations and read-only
// inspection of the inventory straight from Postgres.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/shelfaware/pkg/app"
	"github.com/ghuser/shelfaware/pkg/config"
	"github.com/ghuser/shelfaware/pkg/database"
	"github.com/ghuser/shelfaware/pkg/logger"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(openPostgres).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// openPostgres connects to DATABASE_URL. Logs go to stderr so command output
// can be piped.
func openPostgres(ctx context.Context, opts *rootOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(os.Stderr, level)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &app.Application{Config: cfg, Db: pool, Logger: log}
	return &env{
		svcs:  appsvcs.New(a),
		db:    pool,
		close: pool.Close,
	}, nil
}
