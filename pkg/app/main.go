package app

import (
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/config"
	"github.com/ghuser/shelfaware/pkg/database"
	"github.com/ghuser/shelfaware/pkg/events"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// It is built once in main and passed to every InventoryRoutes/worker
// constructor; nothing else holds a process-wide handle to these resources.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "event recorded", "item_id", id)
//
// Optional members are nil when the backing service is not configured:
// Redis disables the item state cache, TemporalClient disables the expiry
// workflow, SessionStore is nil in the worker process.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store
}

// IsProduction reports whether the process runs with production settings.
func (a *Application) IsProduction() bool {
	return a.Config != nil && a.Config.Environment == config.EnvProduction
}

func (a *Application) redisHandle() *redis.Client {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Client()
}
