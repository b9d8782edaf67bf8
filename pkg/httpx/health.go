package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is anything with a Ping. Database, RedisClient, EventBus and
// TemporalClient all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks names the dependencies /health probes. Leave a field nil when
// the dependency is not configured; it is reported as "disabled".
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
	Temporal HealthChecker
}

// HealthTimeout bounds the whole probe round.
const HealthTimeout = 2 * time.Second

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler probes every configured dependency in parallel. Any failure
// turns the response into a 503 with status "degraded".
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	named := map[string]HealthChecker{
		"database":  checks.Database,
		"redis":     checks.Redis,
		"event_bus": checks.EventBus,
		"temporal":  checks.Temporal,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), HealthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(named))}
		var mu sync.Mutex
		set := func(name, state string) {
			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = state
			if state != "ok" && state != "disabled" {
				resp.Status = "degraded"
			}
		}

		var g errgroup.Group
		for name, c := range named {
			if c == nil {
				set(name, "disabled")
				continue
			}
			g.Go(func() error {
				if err := c.Ping(ctx); err != nil {
					set(name, "unreachable")
					return nil
				}
				set(name, "ok")
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
