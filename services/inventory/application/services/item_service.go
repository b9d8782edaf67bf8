package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

// CreateItemInput holds the user-supplied fields of a new item.
type CreateItemInput struct {
	Name           string
	TypeID         *int64
	Description    string
	ExpiresAt      *time.Time
	OriginalWeight *float64
	CurrentWeight  *float64
	ImageID        *int64
}

// UpdateItemInput edits user-facing fields. Nil fields are left alone.
type UpdateItemInput struct {
	Name           *string
	TypeID         *int64
	ClearType      bool
	Description    *string
	ExpiresAt      *time.Time
	ClearExpiry    bool
	OriginalWeight *float64
	ImageID        *int64
	ClearImage     bool
}

// ItemService handles item CRUD and read views. Presence, weight and
// position are never edited here; they follow the event log.
type ItemService struct {
	store repositories.Store
	cache StateCache
	log   logger.Logger
	now   func() time.Time
}

func (s *ItemService) Create(ctx context.Context, tx repositories.Tx, in CreateItemInput) (*models.Item, error) {
	name, err := domainsvcs.ParseName("name", in.Name)
	if err != nil {
		return nil, err
	}
	item := models.NewItem(models.NewItemParams{
		Name:           name,
		TypeID:         in.TypeID,
		Description:    in.Description,
		ExpiresAt:      in.ExpiresAt,
		OriginalWeight: in.OriginalWeight,
		CurrentWeight:  in.CurrentWeight,
		ImageID:        in.ImageID,
	}, s.now())
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, err
	}

	err = repositories.RunInTx(ctx, s.store, tx, func(tx repositories.Tx) error {
		if err := checkRefs(ctx, tx, item.TypeID, item.ImageID); err != nil {
			return err
		}
		return tx.Items().Create(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.log.InfoContext(ctx, "item created", "item_id", item.ID)
	return item, nil
}

func checkRefs(ctx context.Context, tx repositories.Tx, typeID, imageID *int64) error {
	if typeID != nil {
		if _, err := tx.ItemTypes().GetByID(ctx, *typeID); err != nil {
			return err
		}
	}
	if imageID != nil {
		if _, err := tx.Images().GetByID(ctx, *imageID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.Reader().Items().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update applies in to the item and drops its cached state.
func (s *ItemService) Update(ctx context.Context, tx repositories.Tx, id int64, in UpdateItemInput) (*models.Item, error) {
	u := models.ItemUpdate{
		TypeID:         in.TypeID,
		ClearType:      in.ClearType,
		Description:    in.Description,
		ExpiresAt:      in.ExpiresAt,
		ClearExpiry:    in.ClearExpiry,
		OriginalWeight: in.OriginalWeight,
		ImageID:        in.ImageID,
		ClearImage:     in.ClearImage,
	}
	if in.Name != nil {
		name, err := domainsvcs.ParseName("name", *in.Name)
		if err != nil {
			return nil, err
		}
		u.Name = &name
	}

	var item *models.Item
	err := repositories.RunInTx(ctx, s.store, tx, func(tx repositories.Tx) error {
		var err error
		if item, err = tx.Items().GetByID(ctx, id); err != nil {
			return err
		}
		var typeID, imageID *int64
		if !u.ClearType {
			typeID = u.TypeID
		}
		if !u.ClearImage {
			imageID = u.ImageID
		}
		if err := checkRefs(ctx, tx, typeID, imageID); err != nil {
			return err
		}
		item.ApplyUpdate(u, s.now())
		return tx.Items().Update(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	return item, nil
}

// Delete soft-deletes the item. Its events stay in the log.
func (s *ItemService) Delete(ctx context.Context, tx repositories.Tx, id int64) error {
	err := repositories.RunInTx(ctx, s.store, tx, func(tx repositories.Tx) error {
		return tx.Items().SoftDelete(ctx, id, models.Truncate(s.now()))
	})
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}

func (s *ItemService) List(ctx context.Context, filter repositories.ItemFilter) ([]*models.Item, error) {
	items, err := s.store.Reader().Items().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// CurrentContents lists what is in storage right now according to the
// cached item state.
func (s *ItemService) CurrentContents(ctx context.Context) ([]*models.Item, error) {
	return s.List(ctx, repositories.ItemFilter{PresentOnly: true})
}

// History returns the item's events ordered by timestamp.
func (s *ItemService) History(ctx context.Context, id int64) ([]*models.ItemEvent, error) {
	r := s.store.Reader()
	if _, err := r.Items().GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("item history: %w", err)
	}
	evts, err := r.Events().ListForItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item history: %w", err)
	}
	return evts, nil
}

// State returns the item's presence read model, filling the cache on a miss.
// Cache errors fall back to the database. A cached entry is only served while
// the item row still exists; the bus can refill the cache after a delete.
func (s *ItemService) State(ctx context.Context, id int64) (*cache.ItemState, error) {
	r := s.store.Reader()
	item, err := r.Items().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			s.invalidate(ctx, id)
		}
		return nil, fmt.Errorf("item state: %w", err)
	}

	if s.cache != nil {
		st, err := s.cache.Get(ctx, id)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item state cache read failed", "item_id", id, "error", err)
		}
	}
	latest, err := r.Events().LatestForItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item state: %w", err)
	}
	var lastID int64
	if latest != nil {
		lastID = latest.ID
	}
	st := ItemStateFromModel(item, lastID)

	if s.cache != nil {
		if err := s.cache.SetIfNewer(ctx, st); err != nil {
			s.log.WarnContext(ctx, "item state cache fill failed", "item_id", id, "error", err)
		}
	}
	return st, nil
}

func (s *ItemService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item state cache invalidation failed", "item_id", id, "error", err)
	}
}
