package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

// TagRef identifies a tag by id or by uid. Exactly one must be set.
type TagRef struct {
	ID  *int64
	UID *string
}

// CreateTagInput describes a standalone tag registration.
type CreateTagInput struct {
	Name   string
	UID    string
	ItemID *int64
}

// TagBinder owns tag registration and the tag↔item attachment.
type TagBinder struct {
	store   repositories.Store
	log     logger.Logger
	now     func() time.Time
	metrics *metrics
}

// Create registers a tag. The uid is normalised to lowercase hex. When ItemID
// is set the new tag is bound through SetItem in the same transaction.
func (b *TagBinder) Create(ctx context.Context, tx repositories.Tx, in CreateTagInput) (*models.Tag, error) {
	uid, err := models.NewTagUID(in.UID)
	if err != nil {
		return nil, domain.NewValidationError("uid", err.Error())
	}
	name := in.Name
	if name == "" {
		name = uid.String()
	}
	if _, err := domainsvcs.ParseName("name", name); err != nil {
		return nil, err
	}

	now := models.Truncate(b.now())
	tag := &models.Tag{Name: name, UID: uid, CreatedAt: now, UpdatedAt: now}

	err = repositories.RunInTx(ctx, b.store, tx, func(tx repositories.Tx) error {
		if err := tx.Tags().Create(ctx, tag); err != nil {
			return err
		}
		if in.ItemID == nil {
			return nil
		}
		id := tag.ID
		bound, err := b.SetItem(ctx, tx, TagRef{ID: &id}, in.ItemID, nil)
		if err != nil {
			return err
		}
		tag = bound
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// SetItem points the referenced tag at itemID, or detaches it when itemID is
// nil, and optionally renames it.
//
// When another tag already holds itemID it is detached first. The tag's
// previous item and the new item both get updated_at refreshed. Binding to
// the item the tag already holds leaves attached_at alone. All writes share
// one transaction, so an unknown tag or item leaves nothing behind.
func (b *TagBinder) SetItem(ctx context.Context, tx repositories.Tx, ref TagRef, itemID *int64, name *string) (*models.Tag, error) {
	if name != nil {
		if _, err := domainsvcs.ParseName("name", *name); err != nil {
			return nil, err
		}
	}

	var out *models.Tag
	err := repositories.RunInTx(ctx, b.store, tx, func(tx repositories.Tx) error {
		tag, err := b.resolve(ctx, tx, ref)
		if err != nil {
			return err
		}

		var holder *models.Tag
		if itemID != nil {
			if _, err := tx.Items().GetByID(ctx, *itemID); err != nil {
				return err
			}
			holder, err = tx.Tags().GetByItemID(ctx, *itemID)
			if err != nil && !errors.Is(err, domain.ErrTagNotFound) {
				return err
			}
		}

		plan := domainsvcs.PlanTagBinding(tag, itemID, holder, name, b.now())
		if plan.Detached != nil {
			if err := tx.Tags().Update(ctx, plan.Detached); err != nil {
				return err
			}
			b.metrics.tagSteals.Add(ctx, 1)
			b.log.InfoContext(ctx, "tag detached by steal",
				"tag_id", plan.Detached.ID,
				"item_id", *itemID,
				"new_tag_id", tag.ID,
			)
		}
		if plan.Dirty {
			if err := tx.Tags().Update(ctx, plan.Tag); err != nil {
				return err
			}
		}
		for _, id := range plan.TouchItems {
			if err := tx.Items().Touch(ctx, id, plan.Tag.UpdatedAt); err != nil {
				return err
			}
		}
		out = plan.Tag
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set tag item: %w", err)
	}
	return out, nil
}

// TagChangeInput is a partial update of a tag. ItemID attaches, ClearItem
// detaches, and with neither the attachment is left as it is.
type TagChangeInput struct {
	ItemID    *int64
	ClearItem bool
	Name      *string
}

// Change applies in to the referenced tag. A rename alone never touches the
// attachment.
func (b *TagBinder) Change(ctx context.Context, tx repositories.Tx, ref TagRef, in TagChangeInput) (*models.Tag, error) {
	switch {
	case in.ItemID != nil && in.ClearItem:
		return nil, domain.NewValidationError("clear_item", "give either item_id or clear_item, not both")
	case in.ItemID != nil || in.ClearItem:
		return b.SetItem(ctx, tx, ref, in.ItemID, in.Name)
	case in.Name == nil:
		return nil, domain.NewValidationError("item_id", "give item_id, clear_item or name")
	}

	var out *models.Tag
	err := repositories.RunInTx(ctx, b.store, tx, func(tx repositories.Tx) error {
		tag, err := b.resolve(ctx, tx, ref)
		if err != nil {
			return err
		}
		out, err = b.SetItem(ctx, tx, TagRef{ID: &tag.ID}, tag.ItemID, in.Name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rename tag: %w", err)
	}
	return out, nil
}

func (b *TagBinder) resolve(ctx context.Context, tx repositories.Tx, ref TagRef) (*models.Tag, error) {
	switch {
	case ref.ID != nil && ref.UID != nil:
		return nil, domain.NewValidationError("tag", "give either tag_id or uid, not both")
	case ref.ID != nil:
		return tx.Tags().GetByID(ctx, *ref.ID)
	case ref.UID != nil:
		uid, err := models.NewTagUID(*ref.UID)
		if err != nil {
			return nil, domain.NewValidationError("uid", err.Error())
		}
		return tx.Tags().GetByUID(ctx, uid)
	default:
		return nil, domain.NewValidationError("tag", "tag_id or uid is required")
	}
}

// Get returns a tag by id.
func (b *TagBinder) Get(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := b.store.Reader().Tags().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// GetByUID returns a tag by uid, accepting any casing or separators the
// uid normaliser accepts.
func (b *TagBinder) GetByUID(ctx context.Context, raw string) (*models.Tag, error) {
	uid, err := models.NewTagUID(raw)
	if err != nil {
		return nil, domain.NewValidationError("uid", err.Error())
	}
	tag, err := b.store.Reader().Tags().GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (b *TagBinder) List(ctx context.Context) ([]*models.Tag, error) {
	tags, err := b.store.Reader().Tags().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
