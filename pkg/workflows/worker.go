package workflows

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// NewWorker returns a worker polling taskQueue. The client's tracing
// interceptor also implements the worker side, so workflow and activity
// spans come for free. Register workflows and activities before Start.
func (tc *TemporalClient) NewWorker(taskQueue string) (worker.Worker, error) {
	if taskQueue == "" {
		return nil, fmt.Errorf("temporal worker: empty task queue")
	}
	return worker.New(tc.Client, taskQueue, worker.Options{}), nil
}

// StartCron starts workflow under id on a fixed interval. If a run with id is
// already active, Temporal returns it instead of starting another.
func (tc *TemporalClient) StartCron(ctx context.Context, id, taskQueue string, every time.Duration, workflow any, args ...any) error {
	run, err := tc.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           id,
		TaskQueue:    taskQueue,
		CronSchedule: "@every " + every.String(),
	}, workflow, args...)
	if err != nil {
		return fmt.Errorf("start cron workflow %s: %w", id, err)
	}
	tc.log.InfoContext(ctx, "cron workflow scheduled", "workflow_id", id, "run_id", run.GetRunID(), "every", every.String())
	return nil
}
