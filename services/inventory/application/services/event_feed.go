package services

import (
	"context"
	"fmt"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

const (
	DefaultFeedLimit = 100
	MaxFeedLimit     = 500
)

// EventFeed serves watermark replay: a client that saw event N asks for
// everything after N, in id order, and pages until the result is short.
type EventFeed struct {
	store repositories.Store
}

// Since returns up to limit events with id greater than afterID, ascending by
// id. limit <= 0 means DefaultFeedLimit; limits above MaxFeedLimit are capped.
func (f *EventFeed) Since(ctx context.Context, afterID int64, limit int) ([]*models.ItemEvent, error) {
	if afterID < 0 {
		return nil, domain.NewValidationError("after", "must not be negative")
	}
	switch {
	case limit <= 0:
		limit = DefaultFeedLimit
	case limit > MaxFeedLimit:
		limit = MaxFeedLimit
	}
	evts, err := f.store.Reader().Events().ListSince(ctx, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("events since %d: %w", afterID, err)
	}
	return evts, nil
}
