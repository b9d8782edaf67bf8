package services

import (
	"sort"
	"time"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// PresenceState is the folded state of one item at a point in time.
type PresenceState struct {
	IsPresent  bool
	LastWeight *float64
}

// FoldPresence replays events in (timestamp, id) order and returns the final
// state per item. in and moved mark an item present, out marks it absent;
// any event carrying a weight updates LastWeight. Items without events are
// absent from the map.
func FoldPresence(events []*models.ItemEvent) map[int64]PresenceState {
	ordered := make([]*models.ItemEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})

	states := make(map[int64]PresenceState)
	for _, evt := range ordered {
		st := states[evt.ItemID]
		switch evt.Type {
		case models.EventIn, models.EventMoved:
			st.IsPresent = true
		case models.EventOut:
			st.IsPresent = false
		}
		if evt.Weight != nil {
			w := *evt.Weight
			st.LastWeight = &w
		}
		states[evt.ItemID] = st
	}
	return states
}

// PresentItemIDs folds the events that happened strictly before at and
// returns the ids of items whose final state is present, ascending.
// Events stamped exactly at are treated as not yet happened.
func PresentItemIDs(events []*models.ItemEvent, at time.Time) []int64 {
	before := make([]*models.ItemEvent, 0, len(events))
	for _, evt := range events {
		if evt.Timestamp.Before(at) {
			before = append(before, evt)
		}
	}

	var ids []int64
	for id, st := range FoldPresence(before) {
		if st.IsPresent {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
