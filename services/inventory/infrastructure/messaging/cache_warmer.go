package messaging

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/events"
	"github.com/ghuser/shelfaware/pkg/logger"
)

// StateWriter is the subset of cache.ItemStateCache the warmer needs.
type StateWriter interface {
	SetIfNewer(ctx context.Context, st *cache.ItemState) error
}

// CacheWarmer keeps the Redis item state in step with item_event.recorded.
// Redelivered or reordered messages never move an entry backwards because
// writes are guarded by the event id.
type CacheWarmer struct {
	cache StateWriter
	log   logger.Logger
}

func NewCacheWarmer(c StateWriter, log logger.Logger) *CacheWarmer {
	return &CacheWarmer{cache: c, log: log}
}

// Handle is an EventBus handler. Malformed payloads are dropped without
// retry; cache failures are returned so the bus retries.
func (w *CacheWarmer) Handle(ctx context.Context, msg *message.Message) error {
	evt, err := DecodeItemEventRecorded(msg)
	if err != nil {
		return events.Permanent(err)
	}

	st := &cache.ItemState{
		ItemID:        evt.ItemID,
		Name:          evt.ItemName,
		IsPresent:     evt.IsPresent,
		CurrentWeight: evt.CurrentWeight,
		Plate:         evt.ItemPlate,
		Row:           evt.ItemRow,
		Col:           evt.ItemCol,
		LastEventID:   evt.EventID,
		UpdatedAtMs:   evt.ItemUpdatedAt,
	}
	if err := w.cache.SetIfNewer(ctx, st); err != nil {
		return err
	}
	w.log.DebugContext(ctx, "item state cached", "item_id", evt.ItemID, "event_id", evt.EventID)
	return nil
}
