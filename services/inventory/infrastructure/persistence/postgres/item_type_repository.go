package postgres

import (
	"context"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres/db"
)

// ItemTypeRepository implements repositories.ItemTypeRepository against PostgreSQL.
type ItemTypeRepository struct {
	q    *db.Queries
	lock bool
}

// Create inserts t and assigns its ID.
// Returns ErrItemTypeNameTaken on unique constraint violations.
func (r *ItemTypeRepository) Create(ctx context.Context, t *models.ItemType) error {
	id, err := r.q.InsertItemType(ctx, db.InsertItemTypeParams{
		Name:        t.Name.String(),
		Description: t.Description,
		ParentID:    nullInt64(t.ParentID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("insert item type", err)
	}
	t.ID = id
	return nil
}

func (r *ItemTypeRepository) GetByID(ctx context.Context, id int64) (*models.ItemType, error) {
	get := r.q.GetItemType
	if r.lock {
		get = r.q.GetItemTypeForUpdate
	}
	row, err := get(ctx, id)
	if err != nil {
		return nil, mapReadError("query item type", err, domain.ErrItemTypeNotFound)
	}
	return rowToItemType(row), nil
}

func (r *ItemTypeRepository) Update(ctx context.Context, t *models.ItemType) error {
	n, err := r.q.UpdateItemType(ctx, db.UpdateItemTypeParams{
		ID:          t.ID,
		Name:        t.Name.String(),
		Description: t.Description,
		ParentID:    nullInt64(t.ParentID),
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("update item type", err)
	}
	if n == 0 {
		return domain.ErrItemTypeNotFound
	}
	return nil
}

func (r *ItemTypeRepository) List(ctx context.Context) ([]*models.ItemType, error) {
	rows, err := r.q.ListItemTypes(ctx)
	if err != nil {
		return nil, mapReadError("query item types", err, nil)
	}
	types := make([]*models.ItemType, len(rows))
	for i, row := range rows {
		types[i] = rowToItemType(row)
	}
	return types, nil
}

func rowToItemType(row db.ItemType) *models.ItemType {
	return &models.ItemType{
		ID:          row.ID,
		Name:        models.ItemName(row.Name),
		Description: row.Description,
		ParentID:    ptrInt64(row.ParentID),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
