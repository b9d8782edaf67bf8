package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/ghuser/shelfaware/migrations/inventory"
	"github.com/ghuser/shelfaware/pkg/database"
	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/pkg/migrator"
	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

// newTestStore migrates a throwaway schema and returns a Store bound to it.
// Skipped unless TEST_DATABASE_URL is set.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := os.Getenv("TEST_DATABASE_URL")
	if base == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	admin, err := sql.Open("pgx", base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	schema := fmt.Sprintf("shelfaware_test_%d", time.Now().UnixNano())
	if _, err := admin.Exec("CREATE SCHEMA " + schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		_ = admin.Close()
	})

	u, err := url.Parse(base)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	conn, err := sql.Open("pgx", u.String())
	if err != nil {
		t.Fatalf("open schema conn: %v", err)
	}
	if _, err := migrator.Up(context.Background(), conn, inventory.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	d := database.New(conn, logger.Nop())
	t.Cleanup(d.Close)
	return NewStore(d)
}

func TestStoreIntegration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := models.Truncate(time.Now())

	var itemA, itemB *models.Item
	err := s.WithTx(ctx, func(tx repositories.Tx) error {
		itemA = models.NewItem(models.NewItemParams{Name: "Milk"}, now)
		itemB = models.NewItem(models.NewItemParams{Name: "Eggs"}, now)
		if err := tx.Items().Create(ctx, itemA); err != nil {
			return err
		}
		return tx.Items().Create(ctx, itemB)
	})
	if err != nil {
		t.Fatalf("create items: %v", err)
	}

	t.Run("item round trip", func(t *testing.T) {
		got, err := s.Reader().Items().GetByID(ctx, itemA.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != "Milk" || !got.CreatedAt.Equal(now) {
			t.Fatalf("unexpected item: %+v", got)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := s.Reader().Items().GetByID(ctx, 1<<40)
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("apply state leaves nil fields alone", func(t *testing.T) {
		present := true
		w := 120.0
		plate := int32(3)
		err := s.Reader().Items().ApplyState(ctx, itemA.ID, models.ItemStatePatch{
			IsPresent: &present, CurrentWeight: &w, Plate: &plate, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("ApplyState: %v", err)
		}
		absent := false
		if err := s.Reader().Items().ApplyState(ctx, itemA.ID, models.ItemStatePatch{IsPresent: &absent, UpdatedAt: now}); err != nil {
			t.Fatalf("ApplyState: %v", err)
		}
		got, _ := s.Reader().Items().GetByID(ctx, itemA.ID)
		if got.IsPresent || got.CurrentWeight == nil || *got.CurrentWeight != 120 || got.Position.Plate == nil {
			t.Fatalf("unexpected state: %+v", got)
		}
	})

	t.Run("tag uniqueness", func(t *testing.T) {
		tag := &models.Tag{Name: "a", UID: "aa01", CreatedAt: now, UpdatedAt: now}
		if err := s.Reader().Tags().Create(ctx, tag); err != nil {
			t.Fatalf("Create: %v", err)
		}
		dup := &models.Tag{Name: "b", UID: "aa01", CreatedAt: now, UpdatedAt: now}
		if err := s.Reader().Tags().Create(ctx, dup); !errors.Is(err, domain.ErrTagUIDTaken) {
			t.Fatalf("expected ErrTagUIDTaken, got %v", err)
		}

		tag.ItemID = &itemB.ID
		tag.AttachedAt = &now
		if err := s.Reader().Tags().Update(ctx, tag); err != nil {
			t.Fatalf("attach: %v", err)
		}
		other := &models.Tag{Name: "c", UID: "bb02", ItemID: &itemB.ID, AttachedAt: &now, CreatedAt: now, UpdatedAt: now}
		if err := s.Reader().Tags().Create(ctx, other); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("second tag on one item must conflict, got %v", err)
		}
	})

	t.Run("events ordered by timestamp", func(t *testing.T) {
		late := &models.ItemEvent{ItemID: itemB.ID, Type: models.EventOut, Timestamp: models.FromMillis(200)}
		early := &models.ItemEvent{ItemID: itemB.ID, Type: models.EventIn, Timestamp: models.FromMillis(100)}
		for _, e := range []*models.ItemEvent{late, early} {
			if err := s.Reader().Events().Insert(ctx, e); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
		evts, err := s.Reader().Events().ListBefore(ctx, models.FromMillis(1000))
		if err != nil {
			t.Fatalf("ListBefore: %v", err)
		}
		if len(evts) != 2 || evts[0].ID != early.ID {
			t.Fatalf("expected timestamp order, got %+v", evts)
		}
		latest, err := s.Reader().Events().LatestForItem(ctx, itemB.ID)
		if err != nil || latest.ID != late.ID {
			t.Fatalf("LatestForItem = %+v, %v", latest, err)
		}
		since, err := s.Reader().Events().ListSince(ctx, late.ID, 10)
		if err != nil || len(since) != 1 || since[0].ID != early.ID {
			t.Fatalf("ListSince = %+v, %v", since, err)
		}
	})

	t.Run("event ids follow commit order", func(t *testing.T) {
		var mark int64
		if err := s.db.DB().QueryRowContext(ctx, "SELECT COALESCE(max(id), 0) FROM item_events").Scan(&mark); err != nil {
			t.Fatalf("max id: %v", err)
		}

		first := &models.ItemEvent{ItemID: itemA.ID, Type: models.EventIn, Timestamp: models.FromMillis(500)}
		second := &models.ItemEvent{ItemID: itemB.ID, Type: models.EventIn, Timestamp: models.FromMillis(600)}
		inserted := make(chan struct{})
		release := make(chan struct{})
		firstDone := make(chan error, 1)
		secondDone := make(chan error, 1)

		go func() {
			firstDone <- s.WithTx(ctx, func(tx repositories.Tx) error {
				if err := tx.Events().Insert(ctx, first); err != nil {
					close(inserted)
					return err
				}
				close(inserted)
				<-release
				return nil
			})
		}()
		<-inserted

		go func() {
			secondDone <- s.WithTx(ctx, func(tx repositories.Tx) error {
				return tx.Events().Insert(ctx, second)
			})
		}()

		// The second insert must be parked on the append lock while the
		// first transaction is still open.
		deadline := time.Now().Add(5 * time.Second)
		for {
			var waiting int
			err := s.db.DB().QueryRowContext(ctx,
				"SELECT count(*) FROM pg_locks WHERE locktype = 'advisory' AND NOT granted").Scan(&waiting)
			if err != nil {
				close(release)
				t.Fatalf("pg_locks: %v", err)
			}
			if waiting > 0 {
				break
			}
			if time.Now().After(deadline) {
				close(release)
				t.Fatalf("second insert never waited on the append lock")
			}
			time.Sleep(10 * time.Millisecond)
		}

		visible, err := s.Reader().Events().ListSince(ctx, mark, 10)
		if err != nil || len(visible) != 0 {
			close(release)
			t.Fatalf("ListSince before commit = %+v, %v", visible, err)
		}

		close(release)
		if err := <-firstDone; err != nil {
			t.Fatalf("first tx: %v", err)
		}
		if err := <-secondDone; err != nil {
			t.Fatalf("second tx: %v", err)
		}
		if second.ID <= first.ID {
			t.Fatalf("expected later commit to get the larger id, got %d then %d", first.ID, second.ID)
		}
		visible, err = s.Reader().Events().ListSince(ctx, mark, 10)
		if err != nil || len(visible) != 2 || visible[0].ID != first.ID || visible[1].ID != second.ID {
			t.Fatalf("ListSince after commit = %+v, %v", visible, err)
		}
	})

	t.Run("image replaced once", func(t *testing.T) {
		v1 := models.NewImage(models.NewImageParams{StorageKey: "k1", MimeType: "image/png"}, now)
		v2 := models.NewImage(models.NewImageParams{StorageKey: "k2", MimeType: "image/png"}, now)
		v3 := models.NewImage(models.NewImageParams{StorageKey: "k3", MimeType: "image/png"}, now)
		for _, img := range []*models.Image{v1, v2, v3} {
			if err := s.Reader().Images().Create(ctx, img); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		if err := s.Reader().Images().MarkReplaced(ctx, v1.ID, v2.ID, now); err != nil {
			t.Fatalf("MarkReplaced: %v", err)
		}
		if err := s.Reader().Images().MarkReplaced(ctx, v1.ID, v3.ID, now); !errors.Is(err, domain.ErrImageAlreadyReplaced) {
			t.Fatalf("expected ErrImageAlreadyReplaced, got %v", err)
		}
		pred, err := s.Reader().Images().GetPredecessor(ctx, v2.ID)
		if err != nil || pred == nil || pred.ID != v1.ID {
			t.Fatalf("GetPredecessor = %+v, %v", pred, err)
		}
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		boom := errors.New("boom")
		var id int64
		err := s.WithTx(ctx, func(tx repositories.Tx) error {
			it := models.NewItem(models.NewItemParams{Name: "Ghost"}, now)
			if err := tx.Items().Create(ctx, it); err != nil {
				return err
			}
			id = it.ID
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if _, err := s.Reader().Items().GetByID(ctx, id); !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("rolled back item must not exist, got %v", err)
		}
	})
}
