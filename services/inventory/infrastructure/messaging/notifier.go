// Package messaging publishes inventory domain events on the Watermill bus.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	domainevents "github.com/ghuser/shelfaware/services/inventory/domain/events"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

const eventVersion = 1

// Publisher is the subset of events.EventBus the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// BusNotifier turns committed domain changes into bus messages.
type BusNotifier struct {
	pub Publisher
	now func() time.Time
}

// NewBusNotifier returns a BusNotifier publishing through pub.
func NewBusNotifier(pub Publisher) *BusNotifier {
	return &BusNotifier{pub: pub, now: time.Now}
}

// EventRecorded publishes item_event.recorded for evt with item's state
// after the event was applied.
func (n *BusNotifier) EventRecorded(ctx context.Context, evt *models.ItemEvent, item *models.Item) error {
	payload := domainevents.ItemEventRecorded{
		MessageID:     uuid.New(),
		Version:       eventVersion,
		EventID:       evt.ID,
		ItemID:        evt.ItemID,
		EventType:     evt.Type.String(),
		Timestamp:     models.ToMillis(evt.Timestamp),
		Weight:        evt.Weight,
		Plate:         evt.Position.Plate,
		Row:           evt.Position.Row,
		Col:           evt.Position.Col,
		IsPresent:     item.IsPresent,
		CurrentWeight: item.CurrentWeight,
		ItemPlate:     item.Position.Plate,
		ItemRow:       item.Position.Row,
		ItemCol:       item.Position.Col,
		ItemName:      item.Name.String(),
		ItemUpdatedAt: models.ToMillis(item.UpdatedAt),
		OccurredAt:    n.now().UTC(),
	}
	return n.publish(ctx, domainevents.TopicItemEventRecorded, payload.MessageID, payload)
}

// ItemExpiring publishes item.expiring for item.
func (n *BusNotifier) ItemExpiring(ctx context.Context, item *models.Item) error {
	if item.ExpiresAt == nil {
		return nil
	}
	payload := domainevents.ItemExpiring{
		MessageID:  uuid.New(),
		Version:    eventVersion,
		ItemID:     item.ID,
		ItemName:   item.Name.String(),
		ExpiresAt:  models.ToMillis(*item.ExpiresAt),
		OccurredAt: n.now().UTC(),
	}
	return n.publish(ctx, domainevents.TopicItemExpiring, payload.MessageID, payload)
}

func (n *BusNotifier) publish(ctx context.Context, topic string, id uuid.UUID, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("event_id", id.String())
	msg.Metadata.Set("event_version", fmt.Sprint(eventVersion))
	return n.pub.Publish(ctx, topic, msg)
}

// DecodeItemEventRecorded parses a message published by EventRecorded.
func DecodeItemEventRecorded(msg *message.Message) (*domainevents.ItemEventRecorded, error) {
	var evt domainevents.ItemEventRecorded
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return nil, fmt.Errorf("decode %s: %w", domainevents.TopicItemEventRecorded, err)
	}
	return &evt, nil
}
