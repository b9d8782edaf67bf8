package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

func TestCreateItem_Weights(t *testing.T) {
	tests := []struct {
		name        string
		original    *float64
		current     *float64
		wantOrig    *float64
		wantCurrent *float64
	}{
		{"negative original becomes nil", f64(-1), nil, nil, nil},
		{"current defaults to original", f64(250), nil, f64(250), f64(250)},
		{"explicit current kept", f64(250), f64(100), f64(250), f64(100)},
		{"negative current falls back to original", f64(250), f64(-5), f64(250), f64(250)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			item, err := f.svc.Items.Create(context.Background(), nil, CreateItemInput{
				Name: "Sugar", OriginalWeight: tt.original, CurrentWeight: tt.current,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrig, item.OriginalWeight)
			assert.Equal(t, tt.wantCurrent, item.CurrentWeight)
			assert.False(t, item.IsPresent)
		})
	}
}

func TestCreateItem_InvalidName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Items.Create(context.Background(), nil, CreateItemInput{Name: " padded "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
}

func TestCreateItem_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "X", TypeID: i64(5)})
	require.ErrorIs(t, err, domain.ErrItemTypeNotFound)

	_, err = f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "X", ImageID: i64(5)})
	require.ErrorIs(t, err, domain.ErrImageNotFound)

	items, err := f.svc.Items.List(ctx, repositories.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	typ, err := f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Dairy")})
	require.NoError(t, err)
	item, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Milk", TypeID: &typ.ID})
	require.NoError(t, err)
	require.NoError(t, f.cache.SetIfNewer(ctx, ItemStateFromModel(item, 1)))

	f.clock.Set(7_000)
	exp := models.FromMillis(90_000)
	got, err := f.svc.Items.Update(ctx, nil, item.ID, UpdateItemInput{
		Name:      str("Oat milk"),
		ClearType: true,
		ExpiresAt: &exp,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ItemName("Oat milk"), got.Name)
	assert.Nil(t, got.TypeID)
	require.NotNil(t, got.ExpiresAt)
	assert.Equal(t, int64(90_000), models.ToMillis(*got.ExpiresAt))
	assert.Equal(t, int64(7_000), models.ToMillis(got.UpdatedAt))

	_, cached := f.cache.entries[item.ID]
	assert.False(t, cached, "update must drop cached state")
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Cereal")

	require.NoError(t, f.svc.Items.Delete(ctx, nil, item.ID))

	_, err := f.svc.Items.Get(ctx, item.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	err = f.svc.Items.Delete(ctx, nil, item.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = f.svc.Events.Record(ctx, nil, RecordEventInput{ItemID: item.ID, Type: models.EventIn})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestListItems_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	typ, err := f.svc.ItemTypes.Create(ctx, nil, ItemTypeInput{Name: str("Spices")})
	require.NoError(t, err)

	pepper, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Pepper", TypeID: &typ.ID})
	require.NoError(t, err)
	salt := f.item(t, "Salt")
	f.record(t, salt.ID, models.EventIn, 100, nil)

	byType, err := f.svc.Items.List(ctx, repositories.ItemFilter{TypeID: &typ.ID})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, pepper.ID, byType[0].ID)

	present, err := f.svc.Items.CurrentContents(ctx)
	require.NoError(t, err)
	require.Len(t, present, 1)
	assert.Equal(t, salt.ID, present[0].ID)
}

func TestItemState_ReadThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Lentils")
	evt := f.record(t, item.ID, models.EventIn, 100, f64(300))

	st, err := f.svc.Items.State(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, st.IsPresent)
	assert.Equal(t, evt.ID, st.LastEventID)
	require.NotNil(t, st.CurrentWeight)
	assert.Equal(t, 300.0, *st.CurrentWeight)
	assert.Equal(t, 1, f.cache.sets)

	_, err = f.svc.Items.State(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets, "second read is served from cache")
}

func TestItemState_DeletedItemIgnoresCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Rice")
	evt := f.record(t, item.ID, models.EventIn, 100, nil)

	_, err := f.svc.Items.State(ctx, item.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Items.Delete(ctx, nil, item.ID))

	// A late bus message refills the entry after the delete dropped it.
	require.NoError(t, f.cache.SetIfNewer(ctx, ItemStateFromModel(item, evt.ID)))

	_, err = f.svc.Items.State(ctx, item.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	_, cached := f.cache.entries[item.ID]
	assert.False(t, cached, "stale entry for a deleted item must be dropped")
}

func TestItemState_CacheErrorFallsBack(t *testing.T) {
	f := newFixture(t)
	f.cache.getErr = errBoom
	item := f.item(t, "Chickpeas")

	st, err := f.svc.Items.State(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, st.ItemID)
}

func TestExpiry_NotifyExpiring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soon := models.FromMillis(10_000)
	later := models.FromMillis(10_000_000)

	a, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Soon", ExpiresAt: &soon})
	require.NoError(t, err)
	b, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Later", ExpiresAt: &later})
	require.NoError(t, err)
	absent, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Gone", ExpiresAt: &soon})
	require.NoError(t, err)
	f.record(t, a.ID, models.EventIn, 100, nil)
	f.record(t, b.ID, models.EventIn, 100, nil)
	f.record(t, absent.ID, models.EventOut, 100, nil)

	n, err := f.svc.Expiry.NotifyExpiring(ctx, models.FromMillis(0).Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.notifier.expiring, 1)
	assert.Equal(t, a.ID, f.notifier.expiring[0].ID)
}

func TestExpiry_NotifierErrorStops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soon := models.FromMillis(10_000)
	a, err := f.svc.Items.Create(ctx, nil, CreateItemInput{Name: "Soon", ExpiresAt: &soon})
	require.NoError(t, err)
	f.record(t, a.ID, models.EventIn, 100, nil)
	f.notifier.err = errBoom

	n, err := f.svc.Expiry.NotifyExpiring(ctx, models.FromMillis(20_000))
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, n)
}
