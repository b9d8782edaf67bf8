package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the inventory context.
const (
	// TopicItemEventRecorded is published after an ItemEvent commits.
	TopicItemEventRecorded = "item_event.recorded"

	// TopicItemExpiring is published by the expiry workflow for each present
	// item whose expiration falls inside the configured window.
	TopicItemExpiring = "item.expiring"
)

// ItemEventRecorded is the live-update payload for a newly recorded event.
// Clients resume from a watermark by passing the last EventID they saw to
// GET /api/events?after=<id>.
type ItemEventRecorded struct {
	MessageID uuid.UUID `json:"message_id"` // Unique publish-time identifier for deduplication
	Version   int       `json:"version"`    // Schema version; increment on breaking changes
	EventID   int64     `json:"event_id"`
	ItemID    int64     `json:"item_id"`
	EventType string    `json:"event_type"`
	Timestamp int64     `json:"timestamp"` // epoch ms
	Weight    *float64  `json:"weight,omitempty"`
	Plate     *int32    `json:"plate,omitempty"`
	Row       *int32    `json:"row,omitempty"`
	Col       *int32    `json:"col,omitempty"`

	// Item state after the event was applied.
	IsPresent     bool     `json:"is_present"`
	CurrentWeight *float64 `json:"current_weight,omitempty"`
	ItemPlate     *int32   `json:"item_plate,omitempty"`
	ItemRow       *int32   `json:"item_row,omitempty"`
	ItemCol       *int32   `json:"item_col,omitempty"`
	ItemName      string   `json:"item_name"`
	ItemUpdatedAt int64    `json:"item_updated_at"` // epoch ms

	OccurredAt time.Time `json:"occurred_at"`
}

// ItemExpiring is published when a present item is close to its expiration.
type ItemExpiring struct {
	MessageID  uuid.UUID `json:"message_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name"`
	ExpiresAt  int64     `json:"expires_at"` // epoch ms
	OccurredAt time.Time `json:"occurred_at"`
}
