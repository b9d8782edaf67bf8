package services

import (
	"context"

	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// Notifier is the live-update channel. Calls happen after commit; failures
// are logged by the caller and never undo the committed change.
type Notifier interface {
	EventRecorded(ctx context.Context, evt *models.ItemEvent, item *models.Item) error
	ItemExpiring(ctx context.Context, item *models.Item) error
}

// StateCache is the Redis item state read model.
type StateCache interface {
	Get(ctx context.Context, itemID int64) (*cache.ItemState, error)
	SetIfNewer(ctx context.Context, st *cache.ItemState) error
	Delete(ctx context.Context, itemID int64) error
}

type nopNotifier struct{}

func (nopNotifier) EventRecorded(context.Context, *models.ItemEvent, *models.Item) error {
	return nil
}

func (nopNotifier) ItemExpiring(context.Context, *models.Item) error { return nil }

// ItemStateFromModel builds the cache entry for item; lastEventID is the
// newest event reflected in it, or 0.
func ItemStateFromModel(item *models.Item, lastEventID int64) *cache.ItemState {
	return &cache.ItemState{
		ItemID:        item.ID,
		Name:          item.Name.String(),
		IsPresent:     item.IsPresent,
		CurrentWeight: item.CurrentWeight,
		Plate:         item.Position.Plate,
		Row:           item.Position.Row,
		Col:           item.Position.Col,
		LastEventID:   lastEventID,
		UpdatedAtMs:   models.ToMillis(item.UpdatedAt),
	}
}
