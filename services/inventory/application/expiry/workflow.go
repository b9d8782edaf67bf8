// Package expiry runs the periodic expiring-items scan on Temporal.
//
// The worker process registers ScanWorkflow and Activities and starts one
// cron workflow per deployment; each run announces the present items that
// expire within the configured window.
package expiry

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
)

// WorkflowID is fixed so restarting the worker reattaches to the running cron
// instead of starting a second one.
const WorkflowID = "shelfaware-expiry-scan"

// Activities holds the side-effecting half of the scan.
type Activities struct {
	Expiry *appsvcs.ExpiryService
	Now    func() time.Time
}

// AnnounceExpiring publishes item.expiring for present items expiring
// before now+window and returns how many were announced.
func (a *Activities) AnnounceExpiring(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return a.Expiry.NotifyExpiring(ctx, now().Add(window))
}

// ScanWorkflow runs AnnounceExpiring once.
func ScanWorkflow(ctx workflow.Context, window time.Duration) (int, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	var a *Activities
	var n int
	if err := workflow.ExecuteActivity(ctx, a.AnnounceExpiring, window).Get(ctx, &n); err != nil {
		return 0, err
	}
	workflow.GetLogger(ctx).Info("expiry scan finished", "announced", n)
	return n, nil
}
