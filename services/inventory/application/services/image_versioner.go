package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

// ImageVersioner keeps image rows as linear version chains. Only metadata is
// handled here; bytes live in the object store under StorageKey.
type ImageVersioner struct {
	store   repositories.Store
	log     logger.Logger
	now     func() time.Time
	metrics *metrics
}

func validateImage(p models.NewImageParams) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(p.StorageKey) == "" {
		ve.Add("storage_key", "This field is required")
	}
	if strings.TrimSpace(p.MimeType) == "" {
		ve.Add("mime_type", "This field is required")
	}
	return ve.OrNil()
}

// Create registers the first version of an image.
func (v *ImageVersioner) Create(ctx context.Context, tx repositories.Tx, p models.NewImageParams) (*models.Image, error) {
	if err := validateImage(p); err != nil {
		return nil, err
	}
	img := models.NewImage(p, v.now())
	err := repositories.RunInTx(ctx, v.store, tx, func(tx repositories.Tx) error {
		return tx.Images().Create(ctx, img)
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return img, nil
}

func (v *ImageVersioner) Get(ctx context.Context, id int64) (*models.Image, error) {
	img, err := v.store.Reader().Images().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

// Replace creates a new version of oldID and moves every item and event
// reference from oldID to it, in one transaction. Replacing a version that
// already has a successor fails with ErrImageAlreadyReplaced.
func (v *ImageVersioner) Replace(ctx context.Context, tx repositories.Tx, oldID int64, p models.NewImageParams) (*models.Image, error) {
	if err := validateImage(p); err != nil {
		return nil, err
	}
	now := models.Truncate(v.now())
	img := models.NewImage(p, now)

	var items, events int64
	err := repositories.RunInTx(ctx, v.store, tx, func(tx repositories.Tx) error {
		old, err := tx.Images().GetByID(ctx, oldID)
		if err != nil {
			return err
		}
		if !old.Current() {
			return domain.ErrImageAlreadyReplaced
		}
		if err := tx.Images().Create(ctx, img); err != nil {
			return err
		}
		if err := tx.Images().MarkReplaced(ctx, old.ID, img.ID, now); err != nil {
			return err
		}
		if items, err = tx.Items().RepointImage(ctx, old.ID, img.ID); err != nil {
			return err
		}
		events, err = tx.Events().RepointImage(ctx, old.ID, img.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("replace image %d: %w", oldID, err)
	}

	v.metrics.imageReplacements.Add(ctx, 1)
	v.log.InfoContext(ctx, "image replaced",
		"old_image_id", oldID,
		"new_image_id", img.ID,
		"items_repointed", items,
		"events_repointed", events,
	)
	return img, nil
}

// History returns the chain ending at id, oldest first. Successors of id are
// not included. A loop in the predecessor links is reported as an error.
func (v *ImageVersioner) History(ctx context.Context, id int64) ([]*models.Image, error) {
	repo := v.store.Reader().Images()
	cur, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("image history: %w", err)
	}

	seen := map[int64]bool{cur.ID: true}
	chain := []*models.Image{cur}
	for {
		prev, err := repo.GetPredecessor(ctx, cur.ID)
		if err != nil {
			return nil, fmt.Errorf("image history: %w", err)
		}
		if prev == nil {
			break
		}
		if seen[prev.ID] {
			return nil, fmt.Errorf("image history: version chain of %d loops at %d", id, prev.ID)
		}
		seen[prev.ID] = true
		chain = append(chain, prev)
		cur = prev
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
