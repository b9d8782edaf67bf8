package db

import (
	"context"
	"database/sql"
	"time"
)

const itemTypeColumns = `id, name, description, parent_id, created_at, updated_at`

func scanItemType(row interface{ Scan(...interface{}) error }) (ItemType, error) {
	var t ItemType
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.ParentID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const insertItemType = `
INSERT INTO item_types (name, description, parent_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type InsertItemTypeParams struct {
	Name        string
	Description string
	ParentID    sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) InsertItemType(ctx context.Context, arg InsertItemTypeParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertItemType,
		arg.Name,
		arg.Description,
		arg.ParentID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getItemType = `SELECT ` + itemTypeColumns + ` FROM item_types WHERE id = $1`

func (q *Queries) GetItemType(ctx context.Context, id int64) (ItemType, error) {
	return scanItemType(q.db.QueryRowContext(ctx, getItemType, id))
}

const getItemTypeForUpdate = getItemType + ` FOR UPDATE`

func (q *Queries) GetItemTypeForUpdate(ctx context.Context, id int64) (ItemType, error) {
	return scanItemType(q.db.QueryRowContext(ctx, getItemTypeForUpdate, id))
}

const listItemTypes = `SELECT ` + itemTypeColumns + ` FROM item_types ORDER BY name, id`

func (q *Queries) ListItemTypes(ctx context.Context) ([]ItemType, error) {
	rows, err := q.db.QueryContext(ctx, listItemTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemType
	for rows.Next() {
		t, err := scanItemType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateItemType = `
UPDATE item_types SET name = $2, description = $3, parent_id = $4, updated_at = $5
WHERE id = $1
`

type UpdateItemTypeParams struct {
	ID          int64
	Name        string
	Description string
	ParentID    sql.NullInt64
	UpdatedAt   time.Time
}

func (q *Queries) UpdateItemType(ctx context.Context, arg UpdateItemTypeParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateItemType,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.ParentID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
