package db

import (
	"context"
	"database/sql"
	"time"
)

const itemColumns = `id, name, type_id, description, expires_at, original_weight, current_weight,
	image_id, is_present, pos_plate, pos_row, pos_col, created_at, updated_at, deleted_at`

func scanItem(row interface{ Scan(...interface{}) error }) (Item, error) {
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.TypeID,
		&i.Description,
		&i.ExpiresAt,
		&i.OriginalWeight,
		&i.CurrentWeight,
		&i.ImageID,
		&i.IsPresent,
		&i.PosPlate,
		&i.PosRow,
		&i.PosCol,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

func (q *Queries) queryItems(ctx context.Context, query string, args ...interface{}) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertItem = `
INSERT INTO items (name, type_id, description, expires_at, original_weight, current_weight,
	image_id, is_present, pos_plate, pos_row, pos_col, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id
`

type InsertItemParams struct {
	Name           string
	TypeID         sql.NullInt64
	Description    string
	ExpiresAt      sql.NullTime
	OriginalWeight sql.NullFloat64
	CurrentWeight  sql.NullFloat64
	ImageID        sql.NullInt64
	IsPresent      bool
	PosPlate       sql.NullInt32
	PosRow         sql.NullInt32
	PosCol         sql.NullInt32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertItem,
		arg.Name,
		arg.TypeID,
		arg.Description,
		arg.ExpiresAt,
		arg.OriginalWeight,
		arg.CurrentWeight,
		arg.ImageID,
		arg.IsPresent,
		arg.PosPlate,
		arg.PosRow,
		arg.PosCol,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getItem = `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) GetItem(ctx context.Context, id int64) (Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItem, id))
}

const getItemForUpdate = getItem + ` FOR UPDATE`

func (q *Queries) GetItemForUpdate(ctx context.Context, id int64) (Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItemForUpdate, id))
}

const listItemsByIDs = `SELECT ` + itemColumns + ` FROM items
WHERE id = ANY($1::bigint[]) AND deleted_at IS NULL
ORDER BY updated_at, id`

func (q *Queries) ListItemsByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	return q.queryItems(ctx, listItemsByIDs, ids)
}

const listItems = `SELECT ` + itemColumns + ` FROM items
WHERE deleted_at IS NULL
  AND ($1::bool = FALSE OR is_present)
  AND ($2::bigint IS NULL OR type_id = $2)
ORDER BY updated_at, id
LIMIT NULLIF($3::int, 0) OFFSET $4`

type ListItemsParams struct {
	PresentOnly bool
	TypeID      sql.NullInt64
	Limit       int32
	Offset      int32
}

func (q *Queries) ListItems(ctx context.Context, arg ListItemsParams) ([]Item, error) {
	return q.queryItems(ctx, listItems, arg.PresentOnly, arg.TypeID, arg.Limit, arg.Offset)
}

const listExpiringItems = `SELECT ` + itemColumns + ` FROM items
WHERE deleted_at IS NULL AND is_present AND expires_at IS NOT NULL AND expires_at < $1
ORDER BY expires_at, id`

func (q *Queries) ListExpiringItems(ctx context.Context, before time.Time) ([]Item, error) {
	return q.queryItems(ctx, listExpiringItems, before)
}

const updateItem = `
UPDATE items
SET name = $2, type_id = $3, description = $4, expires_at = $5,
	original_weight = $6, image_id = $7, updated_at = $8
WHERE id = $1 AND deleted_at IS NULL
`

type UpdateItemParams struct {
	ID             int64
	Name           string
	TypeID         sql.NullInt64
	Description    string
	ExpiresAt      sql.NullTime
	OriginalWeight sql.NullFloat64
	ImageID        sql.NullInt64
	UpdatedAt      time.Time
}

func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateItem,
		arg.ID,
		arg.Name,
		arg.TypeID,
		arg.Description,
		arg.ExpiresAt,
		arg.OriginalWeight,
		arg.ImageID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Null arguments leave the column unchanged.
const applyItemState = `
UPDATE items
SET is_present     = COALESCE($2, is_present),
	current_weight = COALESCE($3, current_weight),
	pos_plate      = COALESCE($4, pos_plate),
	pos_row        = COALESCE($5, pos_row),
	pos_col        = COALESCE($6, pos_col),
	updated_at     = $7
WHERE id = $1
`

type ApplyItemStateParams struct {
	ID            int64
	IsPresent     sql.NullBool
	CurrentWeight sql.NullFloat64
	PosPlate      sql.NullInt32
	PosRow        sql.NullInt32
	PosCol        sql.NullInt32
	UpdatedAt     time.Time
}

func (q *Queries) ApplyItemState(ctx context.Context, arg ApplyItemStateParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, applyItemState,
		arg.ID,
		arg.IsPresent,
		arg.CurrentWeight,
		arg.PosPlate,
		arg.PosRow,
		arg.PosCol,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const touchItem = `UPDATE items SET updated_at = $2 WHERE id = $1`

func (q *Queries) TouchItem(ctx context.Context, id int64, at time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, touchItem, id, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const softDeleteItem = `UPDATE items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) SoftDeleteItem(ctx context.Context, id int64, at time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, softDeleteItem, id, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const repointItemImage = `UPDATE items SET image_id = $2 WHERE image_id = $1`

func (q *Queries) RepointItemImage(ctx context.Context, oldID, newID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, repointItemImage, oldID, newID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
