package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var tagUIDPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// TagUID is the lowercase hexadecimal identifier burned into an RFID/NFC tag.
type TagUID string

// NewTagUID lowercases s, strips surrounding whitespace and common byte
// separators (":" and "-"), and validates the result.
func NewTagUID(s string) (TagUID, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(":", "", "-", "").Replace(norm)
	if !tagUIDPattern.MatchString(norm) {
		return "", fmt.Errorf("uid %q must be a lowercase hexadecimal string", s)
	}
	return TagUID(norm), nil
}

func (u TagUID) String() string { return string(u) }

// Tag is a physical identifier attached to at most one item at a time.
type Tag struct {
	ID         int64
	Name       string
	UID        TagUID
	ItemID     *int64
	CreatedAt  time.Time
	AttachedAt *time.Time
	UpdatedAt  time.Time
}

// Attached reports whether the tag currently points at an item.
func (t *Tag) Attached() bool { return t.ItemID != nil }

// AttachedTo reports whether the tag currently points at itemID.
func (t *Tag) AttachedTo(itemID int64) bool {
	return t.ItemID != nil && *t.ItemID == itemID
}
