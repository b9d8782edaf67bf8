// Package postgres implements the inventory repositories on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/shelfaware/pkg/database"
	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
	"github.com/ghuser/shelfaware/services/inventory/infrastructure/persistence/postgres/db"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store implements repositories.Store against PostgreSQL.
type Store struct {
	db *database.Database
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(database *database.Database) *Store {
	return &Store{db: database}
}

// Reader returns repositories bound to the pool. Reads take no row locks.
func (s *Store) Reader() repositories.Tx {
	return &unit{q: db.New(s.db.DB())}
}

// WithTx runs fn in one transaction. Repositories handed to fn lock the rows
// they read.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Tx) error) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&unit{q: db.New(tx), lock: true})
	})
}

type unit struct {
	q    *db.Queries
	lock bool
}

func (u *unit) Items() repositories.ItemRepository {
	return &ItemRepository{q: u.q, lock: u.lock}
}

func (u *unit) ItemTypes() repositories.ItemTypeRepository {
	return &ItemTypeRepository{q: u.q, lock: u.lock}
}

func (u *unit) Tags() repositories.TagRepository {
	return &TagRepository{q: u.q, lock: u.lock}
}

func (u *unit) Events() repositories.EventRepository {
	return &EventRepository{q: u.q}
}

func (u *unit) Images() repositories.ImageRepository {
	return &ImageRepository{q: u.q, lock: u.lock}
}

// uniqueViolations maps constraint names to the domain conflict they signal.
var uniqueViolations = map[string]error{
	"tags_uid_key":              domain.ErrTagUIDTaken,
	"tags_item_id_key":          fmt.Errorf("%w: item already carries a tag", domain.ErrConflict),
	"item_types_name_key":       domain.ErrItemTypeNameTaken,
	"images_storage_key_key":    domain.ErrImageKeyTaken,
	"images_replaced_by_id_key": domain.ErrImageAlreadyReplaced,
}

// mapWriteError translates constraint violations into domain errors and
// wraps everything else with op.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if derr, ok := uniqueViolations[pgErr.ConstraintName]; ok {
				return derr
			}
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: referenced row %w", op, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mapReadError turns sql.ErrNoRows into notFound when one is given.
func mapReadError(op string, err error, notFound error) error {
	if notFound != nil && errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
