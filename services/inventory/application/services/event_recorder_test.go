package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

func TestRecord_InThenOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Milk")

	f.record(t, item.ID, models.EventIn, 100, f64(120))
	f.record(t, item.ID, models.EventOut, 200, nil)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPresent)
	require.NotNil(t, got.CurrentWeight)
	assert.Equal(t, 120.0, *got.CurrentWeight)
}

func TestRecord_OutKeepsPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Jam")

	ts := models.FromMillis(100)
	_, err := f.svc.Events.Record(ctx, nil, RecordEventInput{
		ItemID:    item.ID,
		Type:      models.EventIn,
		Timestamp: &ts,
		Position:  models.Position{Plate: i32(1), Row: i32(2), Col: i32(3)},
	})
	require.NoError(t, err)
	f.record(t, item.ID, models.EventOut, 200, nil)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPresent)
	require.NotNil(t, got.Position.Plate)
	assert.Equal(t, int32(1), *got.Position.Plate)
	assert.Equal(t, int32(2), *got.Position.Row)
	assert.Equal(t, int32(3), *got.Position.Col)
}

func TestRecord_MovedUpdatesPositionOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Rice")
	f.record(t, item.ID, models.EventOut, 100, nil)

	ts := models.FromMillis(200)
	_, err := f.svc.Events.Record(ctx, nil, RecordEventInput{
		ItemID: item.ID, Type: models.EventMoved, Timestamp: &ts,
		Position: models.Position{Row: i32(4)},
	})
	require.NoError(t, err)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPresent, "moved must not change presence")
	require.NotNil(t, got.Position.Row)
	assert.Equal(t, int32(4), *got.Position.Row)
}

func TestRecord_NegativeWeightStoredAsNil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Flour", OriginalWeight: f64(500)})
	require.NoError(t, err)

	evt := f.record(t, item.ID, models.EventIn, 100, f64(-3))
	assert.Nil(t, evt.Weight)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPresent)
	require.NotNil(t, got.CurrentWeight)
	assert.Equal(t, 500.0, *got.CurrentWeight, "unknown weight leaves current weight alone")
}

func TestRecord_DefaultsTimestampToNow(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, "Tea")
	f.clock.Set(5_000)

	evt, err := f.svc.Events.Record(context.Background(), nil, RecordEventInput{ItemID: item.ID, Type: models.EventIn})
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), models.ToMillis(evt.Timestamp))
}

func TestRecord_UnknownItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Events.Record(ctx, nil, RecordEventInput{ItemID: 99, Type: models.EventIn})
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	evts, err := f.svc.Feed.Since(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, evts)
	assert.Empty(t, f.notifier.recorded)
}

func TestRecord_UnknownImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Oats")

	_, err := f.svc.Events.Record(ctx, nil, RecordEventInput{ItemID: item.ID, Type: models.EventIn, ImageID: i64(42)})
	require.ErrorIs(t, err, domain.ErrImageNotFound)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPresent)
}

func TestRecord_BackdatedEventKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Beans")

	f.record(t, item.ID, models.EventIn, 300, nil)
	late := f.record(t, item.ID, models.EventOut, 200, nil)
	assert.NotZero(t, late.ID, "backdated events are still stored")

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPresent)

	hist, err := f.svc.Items.History(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, models.EventOut, hist[0].Type)
}

func TestRecord_NotifiesAfterCommit(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, "Eggs")

	evt := f.record(t, item.ID, models.EventIn, 100, f64(60))

	require.Len(t, f.notifier.recorded, 1)
	call := f.notifier.recorded[0]
	assert.Equal(t, evt.ID, call.evt.ID)
	assert.True(t, call.item.IsPresent)
}

func TestRecord_NotifierFailureIsNotReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifier.err = errBoom
	item := f.item(t, "Salt")

	_, err := f.svc.Events.Record(ctx, nil, RecordEventInput{ItemID: item.ID, Type: models.EventIn})
	require.NoError(t, err)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPresent)
}

func TestRecord_CallerTxDefersNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Honey")

	err := f.store.WithTx(ctx, func(tx repositories.Tx) error {
		_, err := f.svc.Events.Record(ctx, tx, RecordEventInput{ItemID: item.ID, Type: models.EventIn})
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.recorded)
}

func TestRecord_CallerTxRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Cocoa")

	err := f.store.WithTx(ctx, func(tx repositories.Tx) error {
		if _, err := f.svc.Events.Record(ctx, tx, RecordEventInput{ItemID: item.ID, Type: models.EventIn}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPresent)
	evts, err := f.svc.Feed.Since(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, evts)
}
