package models

import (
	"fmt"
	"time"
)

// EventType is the kind of presence change an ItemEvent records.
type EventType string

const (
	EventIn    EventType = "in"
	EventOut   EventType = "out"
	EventMoved EventType = "moved"
)

// ParseEventType validates s against the three known event types.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventIn, EventOut, EventMoved:
		return t, nil
	default:
		return "", fmt.Errorf("event type %q must be one of in, out, moved", s)
	}
}

func (t EventType) String() string { return string(t) }

// ItemEvent is an immutable presence/weight/position record. Events are the
// source of truth for an item's state; they are never updated or deleted,
// except that ImageID follows image replacement.
type ItemEvent struct {
	ID        int64
	ItemID    int64
	Type      EventType
	Timestamp time.Time
	Weight    *float64
	Position  Position
	ImageID   *int64
}
