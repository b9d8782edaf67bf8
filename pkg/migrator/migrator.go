// Package migrator applies the embedded goose migrations. It uses goose's
// Provider so no package-level goose state is touched.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Status summarizes the schema state.
type Status struct {
	Version int64 `json:"version"`
	Applied int   `json:"applied"`
	Pending int   `json:"pending"`
}

func provider(db *sql.DB, files fs.FS) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, files)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration and returns the versions it applied.
func Up(ctx context.Context, db *sql.DB, files fs.FS) ([]int64, error) {
	p, err := provider(db, files)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// CurrentStatus reports the applied version and how many migrations remain.
func CurrentStatus(ctx context.Context, db *sql.DB, files fs.FS) (Status, error) {
	p, err := provider(db, files)
	if err != nil {
		return Status{}, err
	}
	all, err := p.Status(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("migration status: %w", err)
	}
	var s Status
	for _, m := range all {
		if m.State == goose.StateApplied {
			s.Applied++
		} else {
			s.Pending++
		}
	}
	if s.Version, err = p.GetDBVersion(ctx); err != nil {
		return Status{}, fmt.Errorf("migration version: %w", err)
	}
	return s, nil
}
