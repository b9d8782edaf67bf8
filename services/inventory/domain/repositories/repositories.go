package repositories

import (
	"context"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// Tx is a unit of work: a set of repositories sharing one transaction.
// Repositories obtained from a Tx lock the rows they read (SELECT ... FOR
// UPDATE) so read-modify-write sequences are serialized per row.
type Tx interface {
	Items() ItemRepository
	ItemTypes() ItemTypeRepository
	Tags() TagRepository
	Events() EventRepository
	Images() ImageRepository
}

// Store hands out units of work.
// The domain layer owns this interface; infrastructure implements it.
type Store interface {
	// Reader returns repositories bound to the pool, outside any transaction.
	Reader() Tx

	// WithTx runs fn inside a fresh transaction. The transaction commits when
	// fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// RunInTx runs fn inside tx when the caller supplied one, otherwise inside a
// new transaction opened on store. This lets every mutating operation either
// join a larger unit of work or stand alone.
func RunInTx(ctx context.Context, store Store, tx Tx, fn func(tx Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	return store.WithTx(ctx, fn)
}

// ItemFilter narrows item listings.
type ItemFilter struct {
	PresentOnly bool
	TypeID      *int64
	Limit       int // Maximum number of records to return; 0 means no limit
	Offset      int // Number of records to skip
}

// ItemRepository persists the Item aggregate. Soft-deleted items are
// invisible to every read and return ErrItemNotFound.
type ItemRepository interface {
	// Create inserts item and sets its ID.
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// GetByIDs returns the live items among ids ordered by updated_at.
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Item, error)

	// List returns live items ordered by updated_at.
	List(ctx context.Context, filter ItemFilter) ([]*models.Item, error)

	// ListExpiring returns present items whose expiration is before t.
	ListExpiring(ctx context.Context, before time.Time) ([]*models.Item, error)

	// Update persists user-facing fields and updated_at.
	Update(ctx context.Context, item *models.Item) error

	// ApplyState persists the non-nil fields of an event-derived patch.
	ApplyState(ctx context.Context, id int64, patch models.ItemStatePatch) error

	// Touch sets updated_at only.
	Touch(ctx context.Context, id int64, at time.Time) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error

	// RepointImage moves every item referencing oldID to newID and returns the
	// number of rows changed. Soft-deleted items are repointed too.
	RepointImage(ctx context.Context, oldID, newID int64) (int64, error)
}

// ItemTypeRepository persists item types.
type ItemTypeRepository interface {
	// Create inserts t and sets its ID. Returns ErrItemTypeNameTaken on duplicates.
	Create(ctx context.Context, t *models.ItemType) error
	GetByID(ctx context.Context, id int64) (*models.ItemType, error)
	Update(ctx context.Context, t *models.ItemType) error
	List(ctx context.Context) ([]*models.ItemType, error)
}

// TagRepository persists tags.
type TagRepository interface {
	// Create inserts tag and sets its ID. Returns ErrTagUIDTaken on duplicates.
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByUID(ctx context.Context, uid models.TagUID) (*models.Tag, error)

	// GetByItemID returns the tag attached to itemID or ErrTagNotFound.
	GetByItemID(ctx context.Context, itemID int64) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)

	// Update persists name, item_id, attached_at and updated_at.
	Update(ctx context.Context, tag *models.Tag) error
}

// EventRepository is the append-only event log.
type EventRepository interface {
	// Insert appends evt and sets its ID.
	Insert(ctx context.Context, evt *models.ItemEvent) error

	// ListBefore returns every event with timestamp strictly before t,
	// ascending by (timestamp, id).
	ListBefore(ctx context.Context, t time.Time) ([]*models.ItemEvent, error)

	// ListForItem returns the item's events ascending by (timestamp, id).
	ListForItem(ctx context.Context, itemID int64) ([]*models.ItemEvent, error)

	// ListSince returns up to limit events with id > afterID ascending by id.
	ListSince(ctx context.Context, afterID int64, limit int) ([]*models.ItemEvent, error)

	// LatestForItem returns the item's event with the greatest (timestamp, id),
	// or nil when the item has no events.
	LatestForItem(ctx context.Context, itemID int64) (*models.ItemEvent, error)

	// RepointImage moves every event referencing oldID to newID.
	RepointImage(ctx context.Context, oldID, newID int64) (int64, error)
}

// ImageRepository persists image versions.
type ImageRepository interface {
	// Create inserts img and sets its ID. Returns ErrImageKeyTaken on duplicates.
	Create(ctx context.Context, img *models.Image) error
	GetByID(ctx context.Context, id int64) (*models.Image, error)

	// GetPredecessor returns the image whose replaced_by_id is id, or nil.
	GetPredecessor(ctx context.Context, id int64) (*models.Image, error)
	MarkReplaced(ctx context.Context, id, replacedByID int64, at time.Time) error
}
