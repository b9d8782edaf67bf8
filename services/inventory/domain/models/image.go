package models

import "time"

// Image is one version of a picture. Replacing an image creates a new row and
// links the old one forward through ReplacedByID, so each chain has exactly
// one row with ReplacedAt == nil.
type Image struct {
	ID           int64
	StorageKey   string
	Title        string
	Description  string
	MimeType     string
	ReplacedByID *int64
	CreatedAt    time.Time
	ReplacedAt   *time.Time
}

// Current reports whether this is the live version of its chain.
func (i *Image) Current() bool { return i.ReplacedAt == nil }

// NewImageParams describes an image already written to the object store.
type NewImageParams struct {
	StorageKey  string
	Title       string
	Description string
	MimeType    string
}

// NewImage builds a current image version created at now.
func NewImage(p NewImageParams, now time.Time) *Image {
	return &Image{
		StorageKey:  p.StorageKey,
		Title:       p.Title,
		Description: p.Description,
		MimeType:    p.MimeType,
		CreatedAt:   Truncate(now),
	}
}
