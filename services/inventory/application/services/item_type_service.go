package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

// ItemTypeInput carries the editable fields of an item type. On update nil
// means unchanged.
type ItemTypeInput struct {
	Name        *string
	Description *string
	ParentID    *int64
	ClearParent bool
}

type ItemTypeService struct {
	store repositories.Store
	now   func() time.Time
}

func (s *ItemTypeService) Create(ctx context.Context, tx repositories.Tx, in ItemTypeInput) (*models.ItemType, error) {
	if in.Name == nil {
		return nil, domain.NewValidationError("name", "This field is required")
	}
	name, err := domainsvcs.ParseName("name", *in.Name)
	if err != nil {
		return nil, err
	}
	now := models.Truncate(s.now())
	t := &models.ItemType{Name: name, ParentID: in.ParentID, CreatedAt: now, UpdatedAt: now}
	if in.Description != nil {
		t.Description = *in.Description
	}

	err = repositories.RunInTx(ctx, s.store, tx, func(tx repositories.Tx) error {
		if t.ParentID != nil {
			if _, err := tx.ItemTypes().GetByID(ctx, *t.ParentID); err != nil {
				return err
			}
		}
		return tx.ItemTypes().Create(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("create item type: %w", err)
	}
	return t, nil
}

func (s *ItemTypeService) Get(ctx context.Context, id int64) (*models.ItemType, error) {
	t, err := s.store.Reader().ItemTypes().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item type: %w", err)
	}
	return t, nil
}

// Update edits an item type. A parent change that would put the type inside
// its own subtree is rejected.
func (s *ItemTypeService) Update(ctx context.Context, tx repositories.Tx, id int64, in ItemTypeInput) (*models.ItemType, error) {
	var name *models.ItemName
	if in.Name != nil {
		n, err := domainsvcs.ParseName("name", *in.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}

	var t *models.ItemType
	err := repositories.RunInTx(ctx, s.store, tx, func(tx repositories.Tx) error {
		var err error
		if t, err = tx.ItemTypes().GetByID(ctx, id); err != nil {
			return err
		}

		switch {
		case in.ClearParent:
			t.ParentID = nil
		case in.ParentID != nil:
			if _, err := tx.ItemTypes().GetByID(ctx, *in.ParentID); err != nil {
				return err
			}
			all, err := tx.ItemTypes().List(ctx)
			if err != nil {
				return err
			}
			if domainsvcs.WouldCreateCycle(all, id, *in.ParentID) {
				return domain.NewValidationError("parent_id", "would make the type its own ancestor")
			}
			p := *in.ParentID
			t.ParentID = &p
		}
		if name != nil {
			t.Name = *name
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		t.UpdatedAt = models.Truncate(s.now())
		return tx.ItemTypes().Update(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("update item type %d: %w", id, err)
	}
	return t, nil
}

func (s *ItemTypeService) List(ctx context.Context) ([]*models.ItemType, error) {
	types, err := s.store.Reader().ItemTypes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list item types: %w", err)
	}
	return types, nil
}

// Tree returns the type forest with children sorted by name.
func (s *ItemTypeService) Tree(ctx context.Context) ([]*domainsvcs.ItemTypeNode, error) {
	types, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	roots, err := domainsvcs.BuildItemTypeTree(types)
	if err != nil {
		return nil, fmt.Errorf("item type tree: %w", err)
	}
	return roots, nil
}
