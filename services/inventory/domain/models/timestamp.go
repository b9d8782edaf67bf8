package models

import "time"

// Timestamps cross the API boundary as integer milliseconds since the Unix
// epoch and are stored with millisecond precision.

// FromMillis converts epoch milliseconds to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ToMillis converts t to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// Truncate drops sub-millisecond precision so values round-trip through the
// store unchanged.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// MillisPtr converts an optional time to optional epoch milliseconds.
func MillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := ToMillis(*t)
	return &ms
}

// TimePtr converts optional epoch milliseconds to an optional UTC time.
func TimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromMillis(*ms)
	return &t
}
