// Package memory is an in-process implementation of the inventory
// repositories. It mirrors the Postgres constraints (unique tag uid, one tag
// per item, unique type name and storage key) and gives WithTx real rollback
// by running each transaction on a private copy of the state.
//
// Transactions are serialized; it is meant for tests and local tooling.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

// Store implements repositories.Store in memory.
type Store struct {
	txMu sync.Mutex // serializes transactions
	mu   sync.Mutex // guards st
	st   *state

	// FailOn, when set, is consulted before every write; a non-nil return
	// aborts the write with that error. Used to simulate store failures.
	FailOn func(op string) error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Reader returns repositories that act directly on the committed state.
func (s *Store) Reader() repositories.Tx {
	return &unit{s: s, access: func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.st)
	}}
}

// WithTx runs fn on a copy of the state and publishes the copy only when fn
// returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	work := s.st.clone()
	s.mu.Unlock()

	u := &unit{s: s, access: func(fn func(*state) error) error { return fn(work) }}
	if err := fn(u); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

func (s *Store) fail(op string) error {
	if s.FailOn == nil {
		return nil
	}
	if err := s.FailOn(op); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type unit struct {
	s      *Store
	access func(fn func(*state) error) error
}

func (u *unit) Items() repositories.ItemRepository         { return &itemRepo{u} }
func (u *unit) ItemTypes() repositories.ItemTypeRepository { return &itemTypeRepo{u} }
func (u *unit) Tags() repositories.TagRepository           { return &tagRepo{u} }
func (u *unit) Events() repositories.EventRepository       { return &eventRepo{u} }
func (u *unit) Images() repositories.ImageRepository       { return &imageRepo{u} }

// write runs fn under access after the failure hook.
func (u *unit) write(op string, fn func(*state) error) error {
	if err := u.s.fail(op); err != nil {
		return err
	}
	return u.access(fn)
}

type state struct {
	seq    int64
	items  map[int64]*models.Item
	types  map[int64]*models.ItemType
	tags   map[int64]*models.Tag
	events []*models.ItemEvent
	images map[int64]*models.Image
}

func newState() *state {
	return &state{
		items:  make(map[int64]*models.Item),
		types:  make(map[int64]*models.ItemType),
		tags:   make(map[int64]*models.Tag),
		images: make(map[int64]*models.Image),
	}
}

func (st *state) nextID() int64 {
	st.seq++
	return st.seq
}

// clone copies every record. Records are only ever replaced, never mutated
// in place, so a shallow copy of each struct is enough.
func (st *state) clone() *state {
	c := &state{
		seq:    st.seq,
		items:  make(map[int64]*models.Item, len(st.items)),
		types:  make(map[int64]*models.ItemType, len(st.types)),
		tags:   make(map[int64]*models.Tag, len(st.tags)),
		events: make([]*models.ItemEvent, len(st.events)),
		images: make(map[int64]*models.Image, len(st.images)),
	}
	for k, v := range st.items {
		c.items[k] = copyItem(v)
	}
	for k, v := range st.types {
		t := *v
		c.types[k] = &t
	}
	for k, v := range st.tags {
		t := *v
		c.tags[k] = &t
	}
	for i, v := range st.events {
		e := *v
		c.events[i] = &e
	}
	for k, v := range st.images {
		img := *v
		c.images[k] = &img
	}
	return c
}

func copyItem(i *models.Item) *models.Item {
	c := *i
	return &c
}

// liveItem returns the stored item unless it is missing or soft-deleted.
func (st *state) liveItem(id int64) (*models.Item, error) {
	it, ok := st.items[id]
	if !ok || it.DeletedAt != nil {
		return nil, domain.ErrItemNotFound
	}
	return it, nil
}

var errTagItemTaken = fmt.Errorf("%w: item already carries a tag", domain.ErrConflict)

// checkTag enforces unique uid and at most one tag per item.
func (st *state) checkTag(t *models.Tag) error {
	for _, other := range st.tags {
		if other.ID == t.ID {
			continue
		}
		if other.UID == t.UID {
			return domain.ErrTagUIDTaken
		}
		if t.ItemID != nil && other.AttachedTo(*t.ItemID) {
			return errTagItemTaken
		}
	}
	if t.ItemID != nil {
		if _, ok := st.items[*t.ItemID]; !ok {
			return fmt.Errorf("tag item: referenced row %w", domain.ErrNotFound)
		}
	}
	return nil
}
