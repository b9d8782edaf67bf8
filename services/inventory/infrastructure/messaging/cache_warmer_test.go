package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/pkg/events"
	"github.com/ghuser/shelfaware/pkg/logger"
	domainevents "github.com/ghuser/shelfaware/services/inventory/domain/events"
)

type recordingWriter struct {
	got []*cache.ItemState
	err error
}

func (w *recordingWriter) SetIfNewer(_ context.Context, st *cache.ItemState) error {
	w.got = append(w.got, st)
	return w.err
}

func recordedMsg(t *testing.T, evt domainevents.ItemEventRecorded) *message.Message {
	t.Helper()
	b, err := json.Marshal(evt)
	if err != nil {
		t.Fatal(err)
	}
	return message.NewMessage("m-1", b)
}

func TestCacheWarmer_WritesItemState(t *testing.T) {
	w := &recordingWriter{}
	warmer := NewCacheWarmer(w, logger.Nop())

	weight := 80.5
	plate, row, col := int32(1), int32(2), int32(3)
	msg := recordedMsg(t, domainevents.ItemEventRecorded{
		EventID:       42,
		ItemID:        5,
		EventType:     "moved",
		IsPresent:     true,
		CurrentWeight: &weight,
		ItemPlate:     &plate,
		ItemRow:       &row,
		ItemCol:       &col,
		ItemName:      "Flour",
		ItemUpdatedAt: 900,
	})

	if err := warmer.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.got) != 1 {
		t.Fatalf("expected one cache write, got %d", len(w.got))
	}
	st := w.got[0]
	if st.ItemID != 5 || st.LastEventID != 42 || st.Name != "Flour" || !st.IsPresent || st.UpdatedAtMs != 900 {
		t.Fatalf("unexpected state: %+v", st)
	}
	if *st.Plate != 1 || *st.Row != 2 || *st.Col != 3 || *st.CurrentWeight != 80.5 {
		t.Fatalf("position or weight not carried: %+v", st)
	}
}

func TestCacheWarmer_MalformedPayloadIsPermanent(t *testing.T) {
	w := &recordingWriter{}
	warmer := NewCacheWarmer(w, logger.Nop())

	err := warmer.Handle(context.Background(), message.NewMessage("m-2", []byte("{")))
	if !events.IsPermanent(err) {
		t.Fatalf("malformed payload must not be retried: %v", err)
	}
	if len(w.got) != 0 {
		t.Fatal("malformed payload must not reach the cache")
	}
}

func TestCacheWarmer_CacheErrorIsReturned(t *testing.T) {
	boom := errors.New("redis down")
	warmer := NewCacheWarmer(&recordingWriter{err: boom}, logger.Nop())

	err := warmer.Handle(context.Background(), recordedMsg(t, domainevents.ItemEventRecorded{EventID: 1, ItemID: 1}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected cache error, got %v", err)
	}
}
