package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres/db"
)

// ImageRepository implements repositories.ImageRepository against PostgreSQL.
type ImageRepository struct {
	q    *db.Queries
	lock bool
}

// Create inserts img and assigns its ID.
// Returns ErrImageKeyTaken when the storage key is already in use.
func (r *ImageRepository) Create(ctx context.Context, img *models.Image) error {
	id, err := r.q.InsertImage(ctx, db.InsertImageParams{
		StorageKey:  img.StorageKey,
		Title:       img.Title,
		Description: img.Description,
		MimeType:    img.MimeType,
		CreatedAt:   img.CreatedAt,
	})
	if err != nil {
		return mapWriteError("insert image", err)
	}
	img.ID = id
	return nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*models.Image, error) {
	get := r.q.GetImage
	if r.lock {
		get = r.q.GetImageForUpdate
	}
	row, err := get(ctx, id)
	if err != nil {
		return nil, mapReadError("query image", err, domain.ErrImageNotFound)
	}
	return rowToImage(row), nil
}

// GetPredecessor returns nil, nil for the first version of a chain.
func (r *ImageRepository) GetPredecessor(ctx context.Context, id int64) (*models.Image, error) {
	row, err := r.q.GetImagePredecessor(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapReadError("query image predecessor", err, nil)
	}
	return rowToImage(row), nil
}

// MarkReplaced links id to its successor. A row that is already replaced is
// left alone and reported with ErrImageAlreadyReplaced.
func (r *ImageRepository) MarkReplaced(ctx context.Context, id, replacedByID int64, at time.Time) error {
	n, err := r.q.MarkImageReplaced(ctx, id, replacedByID, at)
	if err != nil {
		return mapWriteError("mark image replaced", err)
	}
	if n == 0 {
		return domain.ErrImageAlreadyReplaced
	}
	return nil
}

func rowToImage(row db.Image) *models.Image {
	return &models.Image{
		ID:           row.ID,
		StorageKey:   row.StorageKey,
		Title:        row.Title,
		Description:  row.Description,
		MimeType:     row.MimeType,
		ReplacedByID: ptrInt64(row.ReplacedByID),
		CreatedAt:    row.CreatedAt.UTC(),
		ReplacedAt:   ptrTime(row.ReplacedAt),
	}
}
