package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres/db"
)

// EventRepository implements repositories.EventRepository against PostgreSQL.
// Rows are never updated except for image repointing.
type EventRepository struct {
	q *db.Queries
}

func (r *EventRepository) Insert(ctx context.Context, evt *models.ItemEvent) error {
	id, err := r.q.InsertItemEvent(ctx, db.InsertItemEventParams{
		ItemID:   evt.ItemID,
		Type:     evt.Type.String(),
		Ts:       evt.Timestamp,
		Weight:   nullFloat64(evt.Weight),
		PosPlate: nullInt32(evt.Position.Plate),
		PosRow:   nullInt32(evt.Position.Row),
		PosCol:   nullInt32(evt.Position.Col),
		ImageID:  nullInt64(evt.ImageID),
	})
	if err != nil {
		return mapWriteError("insert item event", err)
	}
	evt.ID = id
	return nil
}

func (r *EventRepository) ListBefore(ctx context.Context, t time.Time) ([]*models.ItemEvent, error) {
	rows, err := r.q.ListItemEventsBefore(ctx, t)
	if err != nil {
		return nil, mapReadError("query events", err, nil)
	}
	return rowsToEvents(rows), nil
}

func (r *EventRepository) ListForItem(ctx context.Context, itemID int64) ([]*models.ItemEvent, error) {
	rows, err := r.q.ListItemEventsForItem(ctx, itemID)
	if err != nil {
		return nil, mapReadError("query item events", err, nil)
	}
	return rowsToEvents(rows), nil
}

func (r *EventRepository) ListSince(ctx context.Context, afterID int64, limit int) ([]*models.ItemEvent, error) {
	rows, err := r.q.ListItemEventsSince(ctx, afterID, int32(limit))
	if err != nil {
		return nil, mapReadError("query events since", err, nil)
	}
	return rowsToEvents(rows), nil
}

// LatestForItem returns nil, nil when the item has no events yet.
func (r *EventRepository) LatestForItem(ctx context.Context, itemID int64) (*models.ItemEvent, error) {
	row, err := r.q.LatestItemEvent(ctx, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapReadError("query latest event", err, nil)
	}
	return rowToEvent(row), nil
}

func (r *EventRepository) RepointImage(ctx context.Context, oldID, newID int64) (int64, error) {
	n, err := r.q.RepointEventImage(ctx, oldID, newID)
	if err != nil {
		return 0, mapWriteError("repoint event images", err)
	}
	return n, nil
}

func rowsToEvents(rows []db.ItemEvent) []*models.ItemEvent {
	events := make([]*models.ItemEvent, len(rows))
	for i, row := range rows {
		events[i] = rowToEvent(row)
	}
	return events
}

func rowToEvent(row db.ItemEvent) *models.ItemEvent {
	return &models.ItemEvent{
		ID:        row.ID,
		ItemID:    row.ItemID,
		Type:      models.EventType(row.Type),
		Timestamp: row.Ts.UTC(),
		Weight:    ptrFloat64(row.Weight),
		Position: models.Position{
			Plate: ptrInt32(row.PosPlate),
			Row:   ptrInt32(row.PosRow),
			Col:   ptrInt32(row.PosCol),
		},
		ImageID: ptrInt64(row.ImageID),
	}
}
