package db

import (
	"context"
	"time"
)

const imageColumns = `id, storage_key, title, description, mime_type, replaced_by_id, created_at, replaced_at`

func scanImage(row interface{ Scan(...interface{}) error }) (Image, error) {
	var i Image
	err := row.Scan(
		&i.ID,
		&i.StorageKey,
		&i.Title,
		&i.Description,
		&i.MimeType,
		&i.ReplacedByID,
		&i.CreatedAt,
		&i.ReplacedAt,
	)
	return i, err
}

const insertImage = `
INSERT INTO images (storage_key, title, description, mime_type, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type InsertImageParams struct {
	StorageKey  string
	Title       string
	Description string
	MimeType    string
	CreatedAt   time.Time
}

func (q *Queries) InsertImage(ctx context.Context, arg InsertImageParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertImage,
		arg.StorageKey,
		arg.Title,
		arg.Description,
		arg.MimeType,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getImage = `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

func (q *Queries) GetImage(ctx context.Context, id int64) (Image, error) {
	return scanImage(q.db.QueryRowContext(ctx, getImage, id))
}

const getImageForUpdate = getImage + ` FOR UPDATE`

func (q *Queries) GetImageForUpdate(ctx context.Context, id int64) (Image, error) {
	return scanImage(q.db.QueryRowContext(ctx, getImageForUpdate, id))
}

const getImagePredecessor = `SELECT ` + imageColumns + ` FROM images WHERE replaced_by_id = $1`

func (q *Queries) GetImagePredecessor(ctx context.Context, id int64) (Image, error) {
	return scanImage(q.db.QueryRowContext(ctx, getImagePredecessor, id))
}

const markImageReplaced = `
UPDATE images SET replaced_by_id = $2, replaced_at = $3
WHERE id = $1 AND replaced_by_id IS NULL
`

func (q *Queries) MarkImageReplaced(ctx context.Context, id, replacedByID int64, at time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, markImageReplaced, id, replacedByID, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
