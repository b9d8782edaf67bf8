package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

// ExpiryService finds present items about to expire and announces them.
type ExpiryService struct {
	store    repositories.Store
	notifier Notifier
	log      logger.Logger
}

// ExpiringItems lists present, live items whose expiration is before the
// given time, soonest first.
func (s *ExpiryService) ExpiringItems(ctx context.Context, before time.Time) ([]*models.Item, error) {
	items, err := s.store.Reader().Items().ListExpiring(ctx, models.Truncate(before))
	if err != nil {
		return nil, fmt.Errorf("expiring items: %w", err)
	}
	return items, nil
}

// NotifyExpiring publishes item.expiring for every item ExpiringItems
// returns and reports how many were published. Publishing stops at the
// first failure so the caller can retry the batch.
func (s *ExpiryService) NotifyExpiring(ctx context.Context, before time.Time) (int, error) {
	items, err := s.ExpiringItems(ctx, before)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if err := s.notifier.ItemExpiring(ctx, item); err != nil {
			return i, fmt.Errorf("notify expiring item %d: %w", item.ID, err)
		}
	}
	if len(items) > 0 {
		s.log.InfoContext(ctx, "expiring items announced", "count", len(items), "before", models.ToMillis(before))
	}
	return len(items), nil
}
