package services

import (
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

func f64(v float64) *float64 { return &v }
func i32(v int32) *int32     { return &v }
func i64(v int64) *int64     { return &v }

func ms(v int64) time.Time { return models.FromMillis(v) }

func evt(id, itemID int64, typ models.EventType, at int64, weight *float64) *models.ItemEvent {
	return &models.ItemEvent{ID: id, ItemID: itemID, Type: typ, Timestamp: ms(at), Weight: weight}
}
