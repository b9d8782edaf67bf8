package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

// PresenceProjector answers "what was in storage at time T" by replaying the
// event log. It never reads the cached item state.
type PresenceProjector struct {
	store repositories.Store
}

// ItemsPresentAt returns the ids of items whose last event strictly before at
// left them present, ascending.
func (p *PresenceProjector) ItemsPresentAt(ctx context.Context, at time.Time) ([]int64, error) {
	evts, err := p.store.Reader().Events().ListBefore(ctx, models.Truncate(at))
	if err != nil {
		return nil, fmt.Errorf("items present at: %w", err)
	}
	return domainsvcs.PresentItemIDs(evts, models.Truncate(at)), nil
}

// PresentItemsAt loads the items ItemsPresentAt reports, ordered by
// updated_at. Soft-deleted items are skipped.
func (p *PresenceProjector) PresentItemsAt(ctx context.Context, at time.Time) ([]*models.Item, error) {
	ids, err := p.ItemsPresentAt(ctx, at)
	if err != nil {
		return nil, err
	}
	items, err := p.store.Reader().Items().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("present items at: %w", err)
	}
	return items, nil
}
