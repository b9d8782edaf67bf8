package db

import (
	"context"
	"database/sql"
	"time"
)

const tagColumns = `id, name, uid, item_id, created_at, attached_at, updated_at`

func scanTag(row interface{ Scan(...interface{}) error }) (Tag, error) {
	var t Tag
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Uid,
		&t.ItemID,
		&t.CreatedAt,
		&t.AttachedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const insertTag = `
INSERT INTO tags (name, uid, item_id, created_at, attached_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

type InsertTagParams struct {
	Name       string
	Uid        string
	ItemID     sql.NullInt64
	CreatedAt  time.Time
	AttachedAt sql.NullTime
	UpdatedAt  time.Time
}

func (q *Queries) InsertTag(ctx context.Context, arg InsertTagParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertTag,
		arg.Name,
		arg.Uid,
		arg.ItemID,
		arg.CreatedAt,
		arg.AttachedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getTag = `SELECT ` + tagColumns + ` FROM tags WHERE id = $1`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTag, id))
}

const getTagForUpdate = getTag + ` FOR UPDATE`

func (q *Queries) GetTagForUpdate(ctx context.Context, id int64) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagForUpdate, id))
}

const getTagByUid = `SELECT ` + tagColumns + ` FROM tags WHERE uid = $1`

func (q *Queries) GetTagByUid(ctx context.Context, uid string) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagByUid, uid))
}

const getTagByUidForUpdate = getTagByUid + ` FOR UPDATE`

func (q *Queries) GetTagByUidForUpdate(ctx context.Context, uid string) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagByUidForUpdate, uid))
}

const getTagByItemID = `SELECT ` + tagColumns + ` FROM tags WHERE item_id = $1`

func (q *Queries) GetTagByItemID(ctx context.Context, itemID int64) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagByItemID, itemID))
}

const getTagByItemIDForUpdate = getTagByItemID + ` FOR UPDATE`

func (q *Queries) GetTagByItemIDForUpdate(ctx context.Context, itemID int64) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagByItemIDForUpdate, itemID))
}

const listTags = `SELECT ` + tagColumns + ` FROM tags ORDER BY id`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		t, err := scanTag(rows)
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

const updateTag = `
UPDATE tags
SET name = $2, item_id = $3, attached_at = $4, updated_at = $5
WHERE id = $1
`

type UpdateTagParams struct {
	ID         int64
	Name       string
	ItemID     sql.NullInt64
	AttachedAt sql.NullTime
	UpdatedAt  time.Time
}

func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTag,
		arg.ID,
		arg.Name,
		arg.ItemID,
		arg.AttachedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
