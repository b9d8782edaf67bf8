package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

// RecordEventInput describes one presence observation.
type RecordEventInput struct {
	ItemID    int64
	Type      models.EventType
	Timestamp *time.Time // nil means now
	Weight    *float64   // negative values are stored as nil
	Position  models.Position
	ImageID   *int64
}

// EventRecorder appends item events and keeps the item's cached
// presence/weight/position in step with the log.
type EventRecorder struct {
	store    repositories.Store
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
	metrics  *metrics
}

// Record appends an event and applies its derived state to the item, in tx
// when given, otherwise in a transaction of its own.
//
// The item row is locked for the duration. An event older than the item's
// latest event is stored but leaves the item untouched. When Record owns the
// transaction it announces the event after commit; callers passing tx must
// call Announce themselves once their transaction commits.
func (r *EventRecorder) Record(ctx context.Context, tx repositories.Tx, in RecordEventInput) (*models.ItemEvent, error) {
	evt, item, err := r.record(ctx, tx, in)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		r.Announce(ctx, evt, item)
	}
	return evt, nil
}

func (r *EventRecorder) record(ctx context.Context, tx repositories.Tx, in RecordEventInput) (*models.ItemEvent, *models.Item, error) {
	now := models.Truncate(r.now())
	ts := now
	if in.Timestamp != nil {
		ts = models.Truncate(*in.Timestamp)
	}
	evt := &models.ItemEvent{
		ItemID:    in.ItemID,
		Type:      in.Type,
		Timestamp: ts,
		Weight:    models.NonNegativeWeight(in.Weight),
		Position:  in.Position,
		ImageID:   in.ImageID,
	}

	var item *models.Item
	err := repositories.RunInTx(ctx, r.store, tx, func(tx repositories.Tx) error {
		var err error
		item, err = tx.Items().GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if in.ImageID != nil {
			if _, err := tx.Images().GetByID(ctx, *in.ImageID); err != nil {
				return err
			}
		}

		latest, err := tx.Events().LatestForItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if err := tx.Events().Insert(ctx, evt); err != nil {
			return err
		}

		if domainsvcs.IsOutOfOrder(evt, latest) {
			r.metrics.eventsOutOfOrder.Add(ctx, 1)
			r.log.WarnContext(ctx, "backdated event left item state unchanged",
				"item_id", item.ID,
				"event_id", evt.ID,
				"event_ts", models.ToMillis(evt.Timestamp),
				"latest_ts", models.ToMillis(latest.Timestamp),
			)
			return nil
		}

		patch := domainsvcs.DeriveItemState(item, evt, now)
		if patch.Empty() {
			return nil
		}
		if err := tx.Items().ApplyState(ctx, item.ID, patch); err != nil {
			return err
		}
		item.Apply(patch)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("record event: %w", err)
	}

	r.metrics.eventRecorded(ctx, evt.Type.String())
	r.log.InfoContext(ctx, "event recorded",
		"event_id", evt.ID,
		"item_id", evt.ItemID,
		"type", evt.Type.String(),
	)
	return evt, item, nil
}

// Announce pushes evt to the live-update channel. Failures are logged and
// counted only; the event is already durable.
func (r *EventRecorder) Announce(ctx context.Context, evt *models.ItemEvent, item *models.Item) {
	if err := r.notifier.EventRecorded(ctx, evt, item); err != nil {
		r.metrics.notifyFailures.Add(ctx, 1)
		r.log.ErrorContext(ctx, "event notification failed",
			"event_id", evt.ID,
			"item_id", evt.ItemID,
			"error", err,
		)
	}
}
