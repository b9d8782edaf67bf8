package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/memory"
)

// clock is a manually advanced time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(ms int64) *clock { return &clock{t: models.FromMillis(ms)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = models.FromMillis(ms)
}

type recordedCall struct {
	evt  *models.ItemEvent
	item *models.Item
}

type fakeNotifier struct {
	mu       sync.Mutex
	recorded []recordedCall
	expiring []*models.Item
	err      error
}

func (n *fakeNotifier) EventRecorded(_ context.Context, evt *models.ItemEvent, item *models.Item) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recorded = append(n.recorded, recordedCall{evt: evt, item: item})
	return n.err
}

func (n *fakeNotifier) ItemExpiring(_ context.Context, item *models.Item) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.expiring = append(n.expiring, item)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[int64]*cache.ItemState
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[int64]*cache.ItemState{}} }

func (c *fakeCache) Get(_ context.Context, id int64) (*cache.ItemState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	st, ok := c.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	return st, nil
}

func (c *fakeCache) SetIfNewer(_ context.Context, st *cache.ItemState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[st.ItemID]; ok && cur.LastEventID >= st.LastEventID {
		return nil
	}
	c.sets++
	c.entries[st.ItemID] = st
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

type fixture struct {
	svc      *Services
	store    *memory.Store
	notifier *fakeNotifier
	cache    *fakeCache
	clock    *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		notifier: &fakeNotifier{},
		cache:    newFakeCache(),
		clock:    newClock(1_000),
	}
	f.svc = NewWithDeps(Deps{
		Store:    f.store,
		Notifier: f.notifier,
		Cache:    f.cache,
		Now:      f.clock.Now,
	})
	return f
}

func (f *fixture) item(t *testing.T, name string) *models.Item {
	t.Helper()
	item, err := f.svc.Items.Create(context.Background(), nil, CreateItemInput{Name: name})
	require.NoError(t, err)
	return item
}

func (f *fixture) record(t *testing.T, itemID int64, typ models.EventType, tsMs int64, weight *float64) *models.ItemEvent {
	t.Helper()
	ts := models.FromMillis(tsMs)
	evt, err := f.svc.Events.Record(context.Background(), nil, RecordEventInput{
		ItemID: itemID, Type: typ, Timestamp: &ts, Weight: weight,
	})
	require.NoError(t, err)
	return evt
}

func (f *fixture) image(t *testing.T, key string) *models.Image {
	t.Helper()
	img, err := f.svc.Images.Create(context.Background(), nil, models.NewImageParams{StorageKey: key, MimeType: "image/jpeg"})
	require.NoError(t, err)
	return img
}

func f64(v float64) *float64 { return &v }
func i32(v int32) *int32     { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }

var errBoom = errors.New("boom")
