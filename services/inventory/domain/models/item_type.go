package models

import "time"

// ItemType categorises items. Types form a tree through ParentID; the store
// does not enforce acyclicity, the domain services do.
type ItemType struct {
	ID          int64
	Name        ItemName
	Description string
	ParentID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
