package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

type itemRepo struct{ u *unit }

func (r *itemRepo) Create(_ context.Context, item *models.Item) error {
	return r.u.write("insert item", func(st *state) error {
		item.ID = st.nextID()
		st.items[item.ID] = copyItem(item)
		return nil
	})
}

func (r *itemRepo) GetByID(_ context.Context, id int64) (*models.Item, error) {
	var out *models.Item
	err := r.u.access(func(st *state) error {
		it, err := st.liveItem(id)
		if err != nil {
			return err
		}
		out = copyItem(it)
		return nil
	})
	return out, err
}

func (r *itemRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Item, error) {
	var out []*models.Item
	err := r.u.access(func(st *state) error {
		for _, id := range ids {
			if it, err := st.liveItem(id); err == nil {
				out = append(out, copyItem(it))
			}
		}
		return nil
	})
	sortByUpdated(out)
	return out, err
}

func (r *itemRepo) List(_ context.Context, f repositories.ItemFilter) ([]*models.Item, error) {
	var out []*models.Item
	err := r.u.access(func(st *state) error {
		for _, it := range st.items {
			if it.DeletedAt != nil || (f.PresentOnly && !it.IsPresent) {
				continue
			}
			if f.TypeID != nil && (it.TypeID == nil || *it.TypeID != *f.TypeID) {
				continue
			}
			out = append(out, copyItem(it))
		}
		return nil
	})
	sortByUpdated(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, err
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, err
}

func (r *itemRepo) ListExpiring(_ context.Context, before time.Time) ([]*models.Item, error) {
	var out []*models.Item
	err := r.u.access(func(st *state) error {
		for _, it := range st.items {
			if it.DeletedAt == nil && it.IsPresent && it.ExpiresAt != nil && it.ExpiresAt.Before(before) {
				out = append(out, copyItem(it))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(*out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(*out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *itemRepo) Update(_ context.Context, item *models.Item) error {
	return r.u.write("update item", func(st *state) error {
		cur, err := st.liveItem(item.ID)
		if err != nil {
			return err
		}
		next := copyItem(cur)
		next.Name = item.Name
		next.TypeID = item.TypeID
		next.Description = item.Description
		next.ExpiresAt = item.ExpiresAt
		next.OriginalWeight = item.OriginalWeight
		next.ImageID = item.ImageID
		next.UpdatedAt = item.UpdatedAt
		st.items[item.ID] = next
		return nil
	})
}

func (r *itemRepo) ApplyState(_ context.Context, id int64, patch models.ItemStatePatch) error {
	return r.u.write("apply item state", func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.ErrItemNotFound
		}
		next := copyItem(cur)
		next.Apply(patch)
		next.UpdatedAt = patch.UpdatedAt
		st.items[id] = next
		return nil
	})
}

func (r *itemRepo) Touch(_ context.Context, id int64, at time.Time) error {
	return r.u.write("touch item", func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.ErrItemNotFound
		}
		next := copyItem(cur)
		next.UpdatedAt = at
		st.items[id] = next
		return nil
	})
}

func (r *itemRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	return r.u.write("delete item", func(st *state) error {
		cur, err := st.liveItem(id)
		if err != nil {
			return err
		}
		next := copyItem(cur)
		next.DeletedAt = &at
		next.UpdatedAt = at
		st.items[id] = next
		return nil
	})
}

func (r *itemRepo) RepointImage(_ context.Context, oldID, newID int64) (int64, error) {
	var n int64
	err := r.u.write("repoint item images", func(st *state) error {
		for id, it := range st.items {
			if it.ImageID != nil && *it.ImageID == oldID {
				next := copyItem(it)
				v := newID
				next.ImageID = &v
				st.items[id] = next
				n++
			}
		}
		return nil
	})
	return n, err
}

func sortByUpdated(items []*models.Item) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.Before(items[j].UpdatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

type itemTypeRepo struct{ u *unit }

func (r *itemTypeRepo) Create(_ context.Context, t *models.ItemType) error {
	return r.u.write("insert item type", func(st *state) error {
		for _, other := range st.types {
			if other.Name == t.Name {
				return domain.ErrItemTypeNameTaken
			}
		}
		t.ID = st.nextID()
		c := *t
		st.types[t.ID] = &c
		return nil
	})
}

func (r *itemTypeRepo) GetByID(_ context.Context, id int64) (*models.ItemType, error) {
	var out *models.ItemType
	err := r.u.access(func(st *state) error {
		t, ok := st.types[id]
		if !ok {
			return domain.ErrItemTypeNotFound
		}
		c := *t
		out = &c
		return nil
	})
	return out, err
}

func (r *itemTypeRepo) Update(_ context.Context, t *models.ItemType) error {
	return r.u.write("update item type", func(st *state) error {
		if _, ok := st.types[t.ID]; !ok {
			return domain.ErrItemTypeNotFound
		}
		for _, other := range st.types {
			if other.ID != t.ID && other.Name == t.Name {
				return domain.ErrItemTypeNameTaken
			}
		}
		c := *t
		st.types[t.ID] = &c
		return nil
	})
}

func (r *itemTypeRepo) List(_ context.Context) ([]*models.ItemType, error) {
	var out []*models.ItemType
	err := r.u.access(func(st *state) error {
		for _, t := range st.types {
			c := *t
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

type tagRepo struct{ u *unit }

func (r *tagRepo) Create(_ context.Context, tag *models.Tag) error {
	return r.u.write("insert tag", func(st *state) error {
		if err := st.checkTag(tag); err != nil {
			return err
		}
		tag.ID = st.nextID()
		c := *tag
		st.tags[tag.ID] = &c
		return nil
	})
}

func (r *tagRepo) find(match func(*models.Tag) bool) (*models.Tag, error) {
	var out *models.Tag
	err := r.u.access(func(st *state) error {
		for _, t := range st.tags {
			if match(t) {
				c := *t
				out = &c
				return nil
			}
		}
		return domain.ErrTagNotFound
	})
	return out, err
}

func (r *tagRepo) GetByID(_ context.Context, id int64) (*models.Tag, error) {
	return r.find(func(t *models.Tag) bool { return t.ID == id })
}

func (r *tagRepo) GetByUID(_ context.Context, uid models.TagUID) (*models.Tag, error) {
	return r.find(func(t *models.Tag) bool { return t.UID == uid })
}

func (r *tagRepo) GetByItemID(_ context.Context, itemID int64) (*models.Tag, error) {
	return r.find(func(t *models.Tag) bool { return t.AttachedTo(itemID) })
}

func (r *tagRepo) List(_ context.Context) ([]*models.Tag, error) {
	var out []*models.Tag
	err := r.u.access(func(st *state) error {
		for _, t := range st.tags {
			c := *t
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *tagRepo) Update(_ context.Context, tag *models.Tag) error {
	return r.u.write("update tag", func(st *state) error {
		if _, ok := st.tags[tag.ID]; !ok {
			return domain.ErrTagNotFound
		}
		if err := st.checkTag(tag); err != nil {
			return err
		}
		c := *tag
		st.tags[tag.ID] = &c
		return nil
	})
}

type eventRepo struct{ u *unit }

func (r *eventRepo) Insert(_ context.Context, evt *models.ItemEvent) error {
	return r.u.write("insert item event", func(st *state) error {
		if _, ok := st.items[evt.ItemID]; !ok {
			return domain.ErrItemNotFound
		}
		if evt.ImageID != nil {
			if _, ok := st.images[*evt.ImageID]; !ok {
				return domain.ErrImageNotFound
			}
		}
		evt.ID = st.nextID()
		c := *evt
		st.events = append(st.events, &c)
		return nil
	})
}

func (r *eventRepo) collect(match func(*models.ItemEvent) bool) ([]*models.ItemEvent, error) {
	var out []*models.ItemEvent
	err := r.u.access(func(st *state) error {
		for _, e := range st.events {
			if match(e) {
				c := *e
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func byTimestamp(evts []*models.ItemEvent) {
	sort.SliceStable(evts, func(i, j int) bool {
		if !evts[i].Timestamp.Equal(evts[j].Timestamp) {
			return evts[i].Timestamp.Before(evts[j].Timestamp)
		}
		return evts[i].ID < evts[j].ID
	})
}

func (r *eventRepo) ListBefore(_ context.Context, t time.Time) ([]*models.ItemEvent, error) {
	out, err := r.collect(func(e *models.ItemEvent) bool { return e.Timestamp.Before(t) })
	byTimestamp(out)
	return out, err
}

func (r *eventRepo) ListForItem(_ context.Context, itemID int64) ([]*models.ItemEvent, error) {
	out, err := r.collect(func(e *models.ItemEvent) bool { return e.ItemID == itemID })
	byTimestamp(out)
	return out, err
}

func (r *eventRepo) ListSince(_ context.Context, afterID int64, limit int) ([]*models.ItemEvent, error) {
	out, err := r.collect(func(e *models.ItemEvent) bool { return e.ID > afterID })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *eventRepo) LatestForItem(ctx context.Context, itemID int64) (*models.ItemEvent, error) {
	evts, err := r.ListForItem(ctx, itemID)
	if err != nil || len(evts) == 0 {
		return nil, err
	}
	return evts[len(evts)-1], nil
}

func (r *eventRepo) RepointImage(_ context.Context, oldID, newID int64) (int64, error) {
	var n int64
	err := r.u.write("repoint event images", func(st *state) error {
		for i, e := range st.events {
			if e.ImageID != nil && *e.ImageID == oldID {
				c := *e
				v := newID
				c.ImageID = &v
				st.events[i] = &c
				n++
			}
		}
		return nil
	})
	return n, err
}

type imageRepo struct{ u *unit }

func (r *imageRepo) Create(_ context.Context, img *models.Image) error {
	return r.u.write("insert image", func(st *state) error {
		for _, other := range st.images {
			if other.StorageKey == img.StorageKey {
				return domain.ErrImageKeyTaken
			}
		}
		img.ID = st.nextID()
		c := *img
		st.images[img.ID] = &c
		return nil
	})
}

func (r *imageRepo) GetByID(_ context.Context, id int64) (*models.Image, error) {
	var out *models.Image
	err := r.u.access(func(st *state) error {
		img, ok := st.images[id]
		if !ok {
			return domain.ErrImageNotFound
		}
		c := *img
		out = &c
		return nil
	})
	return out, err
}

func (r *imageRepo) GetPredecessor(_ context.Context, id int64) (*models.Image, error) {
	var out *models.Image
	err := r.u.access(func(st *state) error {
		for _, img := range st.images {
			if img.ReplacedByID != nil && *img.ReplacedByID == id {
				c := *img
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *imageRepo) MarkReplaced(_ context.Context, id, replacedByID int64, at time.Time) error {
	return r.u.write("mark image replaced", func(st *state) error {
		cur, ok := st.images[id]
		if !ok {
			return domain.ErrImageNotFound
		}
		if cur.ReplacedByID != nil {
			return domain.ErrImageAlreadyReplaced
		}
		c := *cur
		v := replacedByID
		c.ReplacedByID = &v
		c.ReplacedAt = &at
		st.images[id] = &c
		return nil
	})
}
