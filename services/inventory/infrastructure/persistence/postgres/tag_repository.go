package postgres

import (
	"context"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres/db"
)

// TagRepository implements repositories.TagRepository against PostgreSQL.
// The partial unique index tags_item_id_key enforces one tag per item.
type TagRepository struct {
	q    *db.Queries
	lock bool
}

// Create inserts tag and assigns its ID.
// Returns ErrTagUIDTaken when the uid is already registered.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	id, err := r.q.InsertTag(ctx, db.InsertTagParams{
		Name:       tag.Name,
		Uid:        tag.UID.String(),
		ItemID:     nullInt64(tag.ItemID),
		CreatedAt:  tag.CreatedAt,
		AttachedAt: nullTime(tag.AttachedAt),
		UpdatedAt:  tag.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("insert tag", err)
	}
	tag.ID = id
	return nil
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	get := r.q.GetTag
	if r.lock {
		get = r.q.GetTagForUpdate
	}
	row, err := get(ctx, id)
	if err != nil {
		return nil, mapReadError("query tag", err, domain.ErrTagNotFound)
	}
	return rowToTag(row), nil
}

func (r *TagRepository) GetByUID(ctx context.Context, uid models.TagUID) (*models.Tag, error) {
	get := r.q.GetTagByUid
	if r.lock {
		get = r.q.GetTagByUidForUpdate
	}
	row, err := get(ctx, uid.String())
	if err != nil {
		return nil, mapReadError("query tag by uid", err, domain.ErrTagNotFound)
	}
	return rowToTag(row), nil
}

func (r *TagRepository) GetByItemID(ctx context.Context, itemID int64) (*models.Tag, error) {
	get := r.q.GetTagByItemID
	if r.lock {
		get = r.q.GetTagByItemIDForUpdate
	}
	row, err := get(ctx, itemID)
	if err != nil {
		return nil, mapReadError("query tag by item", err, domain.ErrTagNotFound)
	}
	return rowToTag(row), nil
}

func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.q.ListTags(ctx)
	if err != nil {
		return nil, mapReadError("query tags", err, nil)
	}
	tags := make([]*models.Tag, len(rows))
	for i, row := range rows {
		tags[i] = rowToTag(row)
	}
	return tags, nil
}

func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	n, err := r.q.UpdateTag(ctx, db.UpdateTagParams{
		ID:         tag.ID,
		Name:       tag.Name,
		ItemID:     nullInt64(tag.ItemID),
		AttachedAt: nullTime(tag.AttachedAt),
		UpdatedAt:  tag.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("update tag", err)
	}
	if n == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func rowToTag(row db.Tag) *models.Tag {
	return &models.Tag{
		ID:         row.ID,
		Name:       row.Name,
		UID:        models.TagUID(row.Uid),
		ItemID:     ptrInt64(row.ItemID),
		CreatedAt:  row.CreatedAt.UTC(),
		AttachedAt: ptrTime(row.AttachedAt),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}
