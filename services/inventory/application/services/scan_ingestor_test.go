package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

func TestScan_UnknownUIDRegistersTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Scans.Ingest(ctx, ScanInput{UID: "CAFE", Type: models.EventIn})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Nil(t, res.Event)
	assert.Equal(t, "cafe", res.Tag.Name)
	assert.False(t, res.Tag.Attached())

	again, err := f.svc.Scans.Ingest(ctx, ScanInput{UID: "cafe", Type: models.EventIn})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Tag.ID, again.Tag.ID)
	assert.Nil(t, again.Event)
}

func TestScan_AttachedTagRecordsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Olive oil")
	_, err := f.svc.Tags.Create(ctx, nil, CreateTagInput{UID: "beef", ItemID: &item.ID})
	require.NoError(t, err)

	ts := models.FromMillis(100)
	res, err := f.svc.Scans.Ingest(ctx, ScanInput{
		UID: "beef", Type: models.EventIn, Timestamp: &ts, Weight: f64(900),
		Position: models.Position{Plate: i32(2)},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Equal(t, item.ID, res.Event.ItemID)

	got, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPresent)
	assert.Equal(t, 900.0, *got.CurrentWeight)

	require.Len(t, f.notifier.recorded, 1, "scan announces after commit")
	assert.Equal(t, res.Event.ID, f.notifier.recorded[0].evt.ID)
}

func TestScan_BadUID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Scans.Ingest(context.Background(), ScanInput{UID: "not-hex!", Type: models.EventIn})
	require.ErrorIs(t, err, domain.ErrValidation)
}
