package postgres

import (
	"context"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres/db"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	q    *db.Queries
	lock bool
}

// Create inserts item and assigns its ID.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	id, err := r.q.InsertItem(ctx, db.InsertItemParams{
		Name:           item.Name.String(),
		TypeID:         nullInt64(item.TypeID),
		Description:    item.Description,
		ExpiresAt:      nullTime(item.ExpiresAt),
		OriginalWeight: nullFloat64(item.OriginalWeight),
		CurrentWeight:  nullFloat64(item.CurrentWeight),
		ImageID:        nullInt64(item.ImageID),
		IsPresent:      item.IsPresent,
		PosPlate:       nullInt32(item.Position.Plate),
		PosRow:         nullInt32(item.Position.Row),
		PosCol:         nullInt32(item.Position.Col),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("insert item", err)
	}
	item.ID = id
	return nil
}

// GetByID retrieves a live Item. Inside a transaction the row is locked.
// Returns ErrItemNotFound if the item does not exist or was deleted.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	get := r.q.GetItem
	if r.lock {
		get = r.q.GetItemForUpdate
	}
	row, err := get(ctx, id)
	if err != nil {
		return nil, mapReadError("query item", err, domain.ErrItemNotFound)
	}
	return rowToItem(row), nil
}

func (r *ItemRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.ListItemsByIDs(ctx, ids)
	if err != nil {
		return nil, mapReadError("query items", err, nil)
	}
	return rowsToItems(rows), nil
}

func (r *ItemRepository) List(ctx context.Context, filter repositories.ItemFilter) ([]*models.Item, error) {
	rows, err := r.q.ListItems(ctx, db.ListItemsParams{
		PresentOnly: filter.PresentOnly,
		TypeID:      nullInt64(filter.TypeID),
		Limit:       int32(filter.Limit),
		Offset:      int32(filter.Offset),
	})
	if err != nil {
		return nil, mapReadError("query items", err, nil)
	}
	return rowsToItems(rows), nil
}

func (r *ItemRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.Item, error) {
	rows, err := r.q.ListExpiringItems(ctx, before)
	if err != nil {
		return nil, mapReadError("query expiring items", err, nil)
	}
	return rowsToItems(rows), nil
}

// Update persists user-facing fields of an existing Item.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	n, err := r.q.UpdateItem(ctx, db.UpdateItemParams{
		ID:             item.ID,
		Name:           item.Name.String(),
		TypeID:         nullInt64(item.TypeID),
		Description:    item.Description,
		ExpiresAt:      nullTime(item.ExpiresAt),
		OriginalWeight: nullFloat64(item.OriginalWeight),
		ImageID:        nullInt64(item.ImageID),
		UpdatedAt:      item.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("update item", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) ApplyState(ctx context.Context, id int64, patch models.ItemStatePatch) error {
	n, err := r.q.ApplyItemState(ctx, db.ApplyItemStateParams{
		ID:            id,
		IsPresent:     nullBool(patch.IsPresent),
		CurrentWeight: nullFloat64(patch.CurrentWeight),
		PosPlate:      nullInt32(patch.Plate),
		PosRow:        nullInt32(patch.Row),
		PosCol:        nullInt32(patch.Col),
		UpdatedAt:     patch.UpdatedAt,
	})
	if err != nil {
		return mapWriteError("apply item state", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	n, err := r.q.TouchItem(ctx, id, at)
	if err != nil {
		return mapWriteError("touch item", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	n, err := r.q.SoftDeleteItem(ctx, id, at)
	if err != nil {
		return mapWriteError("delete item", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) RepointImage(ctx context.Context, oldID, newID int64) (int64, error) {
	n, err := r.q.RepointItemImage(ctx, oldID, newID)
	if err != nil {
		return 0, mapWriteError("repoint item images", err)
	}
	return n, nil
}

func rowsToItems(rows []db.Item) []*models.Item {
	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items
}

// rowToItem maps a db.Item to a domain models.Item.
func rowToItem(row db.Item) *models.Item {
	return &models.Item{
		ID:             row.ID,
		Name:           models.ItemName(row.Name),
		TypeID:         ptrInt64(row.TypeID),
		Description:    row.Description,
		ExpiresAt:      ptrTime(row.ExpiresAt),
		OriginalWeight: ptrFloat64(row.OriginalWeight),
		CurrentWeight:  ptrFloat64(row.CurrentWeight),
		ImageID:        ptrInt64(row.ImageID),
		IsPresent:      row.IsPresent,
		Position: models.Position{
			Plate: ptrInt32(row.PosPlate),
			Row:   ptrInt32(row.PosRow),
			Col:   ptrInt32(row.PosCol),
		},
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
		DeletedAt: ptrTime(row.DeletedAt),
	}
}
