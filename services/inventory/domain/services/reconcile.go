package services

import (
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// DeriveItemState computes the partial item update implied by evt.
//
//   - in:    present; weight and any supplied coordinates applied
//   - out:   absent; weight applied; position kept
//   - moved: supplied coordinates and weight applied; presence unchanged
//
// Only fields whose stored value would actually change are set, so an
// Empty patch means the item row must not be written at all.
func DeriveItemState(item *models.Item, evt *models.ItemEvent, now time.Time) models.ItemStatePatch {
	patch := models.ItemStatePatch{UpdatedAt: models.Truncate(now)}

	switch evt.Type {
	case models.EventIn:
		patch.IsPresent = changedBool(item.IsPresent, true)
		applyPosition(&patch, item.Position, evt.Position)
	case models.EventOut:
		patch.IsPresent = changedBool(item.IsPresent, false)
	case models.EventMoved:
		applyPosition(&patch, item.Position, evt.Position)
	}

	patch.CurrentWeight = changedWeight(item.CurrentWeight, evt.Weight)
	return patch
}

// IsOutOfOrder reports whether evt is strictly older than latest, the item's
// most recent event. Out-of-order (backdated) events are logged but must not
// overwrite the cached state derived from a later event.
func IsOutOfOrder(evt, latest *models.ItemEvent) bool {
	if latest == nil {
		return false
	}
	return evt.Timestamp.Before(latest.Timestamp)
}

func applyPosition(patch *models.ItemStatePatch, cur, next models.Position) {
	patch.Plate = changedInt(cur.Plate, next.Plate)
	patch.Row = changedInt(cur.Row, next.Row)
	patch.Col = changedInt(cur.Col, next.Col)
}

func changedBool(cur, next bool) *bool {
	if cur == next {
		return nil
	}
	return &next
}

func changedWeight(cur, next *float64) *float64 {
	if next == nil {
		return nil
	}
	if cur != nil && *cur == *next {
		return nil
	}
	v := *next
	return &v
}

func changedInt(cur, next *int32) *int32 {
	if next == nil {
		return nil
	}
	if cur != nil && *cur == *next {
		return nil
	}
	v := *next
	return &v
}
