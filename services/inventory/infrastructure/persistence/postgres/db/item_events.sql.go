package db

import (
	"context"
	"database/sql"
	"time"
)

const itemEventColumns = `id, item_id, type, ts, weight, pos_plate, pos_row, pos_col, image_id`

func scanItemEvent(row interface{ Scan(...interface{}) error }) (ItemEvent, error) {
	var e ItemEvent
	err := row.Scan(
		&e.ID,
		&e.ItemID,
		&e.Type,
		&e.Ts,
		&e.Weight,
		&e.PosPlate,
		&e.PosRow,
		&e.PosCol,
		&e.ImageID,
	)
	return e, err
}

func (q *Queries) queryItemEvents(ctx context.Context, query string, args ...interface{}) ([]ItemEvent, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemEvent
	for rows.Next() {
		e, err := scanItemEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// EventAppendLockKey is the advisory lock taken by every event insert. It is
// held until the surrounding transaction ends, so ids are handed out in
// commit order and the id watermark of ListItemEventsSince never skips a row.
const EventAppendLockKey int64 = 0x5348454c46455654

const insertItemEvent = `
WITH append_lock AS (SELECT pg_advisory_xact_lock($9::bigint))
INSERT INTO item_events (item_id, type, ts, weight, pos_plate, pos_row, pos_col, image_id)
SELECT $1::bigint, $2::text, $3::timestamptz, $4::double precision,
       $5::integer, $6::integer, $7::integer, $8::bigint
FROM append_lock
RETURNING id
`

type InsertItemEventParams struct {
	ItemID   int64
	Type     string
	Ts       time.Time
	Weight   sql.NullFloat64
	PosPlate sql.NullInt32
	PosRow   sql.NullInt32
	PosCol   sql.NullInt32
	ImageID  sql.NullInt64
}

func (q *Queries) InsertItemEvent(ctx context.Context, arg InsertItemEventParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertItemEvent,
		arg.ItemID,
		arg.Type,
		arg.Ts,
		arg.Weight,
		arg.PosPlate,
		arg.PosRow,
		arg.PosCol,
		arg.ImageID,
		EventAppendLockKey,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listItemEventsBefore = `SELECT ` + itemEventColumns + ` FROM item_events
WHERE ts < $1
ORDER BY ts, id`

func (q *Queries) ListItemEventsBefore(ctx context.Context, before time.Time) ([]ItemEvent, error) {
	return q.queryItemEvents(ctx, listItemEventsBefore, before)
}

const listItemEventsForItem = `SELECT ` + itemEventColumns + ` FROM item_events
WHERE item_id = $1
ORDER BY ts, id`

func (q *Queries) ListItemEventsForItem(ctx context.Context, itemID int64) ([]ItemEvent, error) {
	return q.queryItemEvents(ctx, listItemEventsForItem, itemID)
}

const listItemEventsSince = `SELECT ` + itemEventColumns + ` FROM item_events
WHERE id > $1
ORDER BY id
LIMIT $2`

func (q *Queries) ListItemEventsSince(ctx context.Context, afterID int64, limit int32) ([]ItemEvent, error) {
	return q.queryItemEvents(ctx, listItemEventsSince, afterID, limit)
}

const latestItemEvent = `SELECT ` + itemEventColumns + ` FROM item_events
WHERE item_id = $1
ORDER BY ts DESC, id DESC
LIMIT 1`

func (q *Queries) LatestItemEvent(ctx context.Context, itemID int64) (ItemEvent, error) {
	return scanItemEvent(q.db.QueryRowContext(ctx, latestItemEvent, itemID))
}

const repointEventImage = `UPDATE item_events SET image_id = $2 WHERE image_id = $1`

func (q *Queries) RepointEventImage(ctx context.Context, oldID, newID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, repointEventImage, oldID, newID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
