package models

import "time"

// Position is a grid slot inside the storage space. Each coordinate is
// optional; a nil coordinate means "unknown".
type Position struct {
	Plate *int32
	Row   *int32
	Col   *int32
}

// IsZero reports whether no coordinate is set.
func (p Position) IsZero() bool {
	return p.Plate == nil && p.Row == nil && p.Col == nil
}

// Item is the core aggregate for this bounded context.
//
// IsPresent, CurrentWeight and Position are a cache of the latest ItemEvent
// and are only written through ItemStatePatch.
type Item struct {
	ID             int64
	Name           ItemName
	TypeID         *int64
	Description    string
	ExpiresAt      *time.Time
	OriginalWeight *float64
	CurrentWeight  *float64
	ImageID        *int64
	IsPresent      bool
	Position       Position
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// NewItemParams holds the user-supplied fields of a new item.
type NewItemParams struct {
	Name           ItemName
	TypeID         *int64
	Description    string
	ExpiresAt      *time.Time
	OriginalWeight *float64
	CurrentWeight  *float64
	ImageID        *int64
}

// NewItem constructs an Item with both timestamps set to now.
// Negative weights become nil; a missing current weight starts at the
// original weight.
func NewItem(p NewItemParams, now time.Time) *Item {
	now = Truncate(now)
	original := NonNegativeWeight(p.OriginalWeight)
	current := NonNegativeWeight(p.CurrentWeight)
	if current == nil {
		current = NonNegativeWeight(original)
	}
	return &Item{
		Name:           p.Name,
		TypeID:         p.TypeID,
		Description:    p.Description,
		ExpiresAt:      truncatePtr(p.ExpiresAt),
		OriginalWeight: original,
		CurrentWeight:  current,
		ImageID:        p.ImageID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ItemStatePatch is a partial update of an item's event-derived fields.
// Nil fields are left untouched.
type ItemStatePatch struct {
	IsPresent     *bool
	CurrentWeight *float64
	Plate         *int32
	Row           *int32
	Col           *int32
	UpdatedAt     time.Time
}

// Empty reports whether the patch changes nothing.
func (p ItemStatePatch) Empty() bool {
	return p.IsPresent == nil && p.CurrentWeight == nil &&
		p.Plate == nil && p.Row == nil && p.Col == nil
}

// Apply writes the patch onto the item in memory.
func (i *Item) Apply(p ItemStatePatch) {
	if p.Empty() {
		return
	}
	if p.IsPresent != nil {
		i.IsPresent = *p.IsPresent
	}
	if p.CurrentWeight != nil {
		w := *p.CurrentWeight
		i.CurrentWeight = &w
	}
	if p.Plate != nil {
		v := *p.Plate
		i.Position.Plate = &v
	}
	if p.Row != nil {
		v := *p.Row
		i.Position.Row = &v
	}
	if p.Col != nil {
		v := *p.Col
		i.Position.Col = &v
	}
	i.UpdatedAt = p.UpdatedAt
}

// ItemUpdate carries edits to user-facing item fields. Nil means unchanged;
// the Clear* flags null out optional references.
type ItemUpdate struct {
	Name           *ItemName
	TypeID         *int64
	ClearType      bool
	Description    *string
	ExpiresAt      *time.Time
	ClearExpiry    bool
	OriginalWeight *float64
	ImageID        *int64
	ClearImage     bool
}

// ApplyUpdate writes u onto the item and bumps UpdatedAt.
func (i *Item) ApplyUpdate(u ItemUpdate, now time.Time) {
	if u.Name != nil {
		i.Name = *u.Name
	}
	switch {
	case u.ClearType:
		i.TypeID = nil
	case u.TypeID != nil:
		id := *u.TypeID
		i.TypeID = &id
	}
	if u.Description != nil {
		i.Description = *u.Description
	}
	switch {
	case u.ClearExpiry:
		i.ExpiresAt = nil
	case u.ExpiresAt != nil:
		i.ExpiresAt = truncatePtr(u.ExpiresAt)
	}
	if u.OriginalWeight != nil {
		i.OriginalWeight = NonNegativeWeight(u.OriginalWeight)
	}
	switch {
	case u.ClearImage:
		i.ImageID = nil
	case u.ImageID != nil:
		id := *u.ImageID
		i.ImageID = &id
	}
	i.UpdatedAt = Truncate(now)
}

func truncatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := Truncate(*t)
	return &v
}
