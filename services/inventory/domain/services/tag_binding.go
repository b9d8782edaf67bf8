package services

import (
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// TagBinding is the set of writes needed to move a tag to a new target.
// All writes belong to one transaction.
type TagBinding struct {
	// Tag is the bound tag after the change.
	Tag *models.Tag

	// Detached is the other tag forced off the target item, if any. It must be
	// persisted before Tag so the one-tag-per-item constraint never trips.
	Detached *models.Tag

	// TouchItems lists items whose updated_at must be refreshed.
	TouchItems []int64

	// Dirty reports whether Tag differs from its stored row.
	Dirty bool
}

// PlanTagBinding computes how to point tag at target (nil detaches).
//
// holder is the tag currently attached to target, or nil. When holder is a
// different tag it is detached first (the steal case). The previous item of
// tag and the target item are both touched. Re-attaching to the same item
// leaves the attachment fields alone; name still applies.
func PlanTagBinding(tag *models.Tag, target *int64, holder *models.Tag, name *string, now time.Time) TagBinding {
	now = models.Truncate(now)
	next := *tag
	plan := TagBinding{Tag: &next}

	if name != nil && *name != tag.Name {
		next.Name = *name
		plan.Dirty = true
	}

	if !sameTarget(tag.ItemID, target) {
		if target != nil && holder != nil && holder.ID != tag.ID {
			detached := *holder
			detached.ItemID = nil
			detached.AttachedAt = nil
			detached.UpdatedAt = now
			plan.Detached = &detached
		}

		if tag.ItemID != nil {
			plan.TouchItems = append(plan.TouchItems, *tag.ItemID)
		}

		if target != nil {
			id := *target
			at := now
			next.ItemID = &id
			next.AttachedAt = &at
			plan.TouchItems = append(plan.TouchItems, id)
		} else {
			next.ItemID = nil
			next.AttachedAt = nil
		}
		plan.Dirty = true
	}

	if plan.Dirty {
		next.UpdatedAt = now
	}
	return plan
}

func sameTarget(cur, next *int64) bool {
	if cur == nil || next == nil {
		return cur == nil && next == nil
	}
	return *cur == *next
}
