package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

func TestReplaceImage_RepointsItemsAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.image(t, "img/1.jpg")

	item, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Pasta", ImageID: &old.ID})
	require.NoError(t, err)
	evt, err := f.svc.Events.Record(ctx, nil, RecordEventInput{ItemID: item.ID, Type: models.EventIn, ImageID: &old.ID})
	require.NoError(t, err)

	f.clock.Set(4_000)
	next, err := f.svc.Images.Replace(ctx, nil, old.ID, models.NewImageParams{StorageKey: "img/2.jpg", MimeType: "image/jpeg"})
	require.NoError(t, err)
	assert.True(t, next.Current())

	gotItem, err := f.svc.Items.Get(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, gotItem.ImageID)
	assert.Equal(t, next.ID, *gotItem.ImageID)

	hist, err := f.svc.Items.History(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, evt.ID, hist[0].ID)
	require.NotNil(t, hist[0].ImageID)
	assert.Equal(t, next.ID, *hist[0].ImageID)

	gotOld, err := f.svc.Images.Get(ctx, old.ID)
	require.NoError(t, err)
	require.NotNil(t, gotOld.ReplacedByID)
	assert.Equal(t, next.ID, *gotOld.ReplacedByID)
	require.NotNil(t, gotOld.ReplacedAt)
	assert.Equal(t, int64(4_000), models.ToMillis(*gotOld.ReplacedAt))
}

func TestReplaceImage_AlreadyReplaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.image(t, "a.png")

	_, err := f.svc.Images.Replace(ctx, nil, old.ID, models.NewImageParams{StorageKey: "b.png", MimeType: "image/png"})
	require.NoError(t, err)

	_, err = f.svc.Images.Replace(ctx, nil, old.ID, models.NewImageParams{StorageKey: "c.png", MimeType: "image/png"})
	require.ErrorIs(t, err, domain.ErrImageAlreadyReplaced)
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Images.Create(ctx, nil, models.NewImageParams{StorageKey: "c.png", MimeType: "image/png"})
	require.NoError(t, err, "failed replace must not leave the new row behind")
}

func TestReplaceImage_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Images.Replace(context.Background(), nil, 77, models.NewImageParams{StorageKey: "x", MimeType: "image/png"})
	require.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestReplaceImage_Validation(t *testing.T) {
	f := newFixture(t)
	old := f.image(t, "v.png")

	_, err := f.svc.Images.Replace(context.Background(), nil, old.ID, models.NewImageParams{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "storage_key")
	assert.Contains(t, ve.Fields, "mime_type")
}

func TestImageHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v1 := f.image(t, "h1")
	v2, err := f.svc.Images.Replace(ctx, nil, v1.ID, models.NewImageParams{StorageKey: "h2", MimeType: "image/png"})
	require.NoError(t, err)
	v3, err := f.svc.Images.Replace(ctx, nil, v2.ID, models.NewImageParams{StorageKey: "h3", MimeType: "image/png"})
	require.NoError(t, err)

	chain, err := f.svc.Images.History(ctx, v3.ID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(chain))
	for _, img := range chain {
		ids = append(ids, img.ID)
	}
	assert.Equal(t, []int64{v1.ID, v2.ID, v3.ID}, ids)

	mid, err := f.svc.Images.History(ctx, v2.ID)
	require.NoError(t, err)
	assert.Len(t, mid, 2)
}
