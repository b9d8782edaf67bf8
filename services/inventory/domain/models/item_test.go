package models

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }
func i32(v int32) *int32     { return &v }

func TestNewItem(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 123456789, time.UTC)

	t.Run("negative original weight stored as nil", func(t *testing.T) {
		item := NewItem(NewItemParams{Name: "Milk", OriginalWeight: f64(-5)}, now)
		if item.OriginalWeight != nil {
			t.Fatalf("expected nil original weight, got %v", *item.OriginalWeight)
		}
		if item.CurrentWeight != nil {
			t.Fatalf("expected nil current weight, got %v", *item.CurrentWeight)
		}
	})

	t.Run("current weight defaults to original", func(t *testing.T) {
		item := NewItem(NewItemParams{Name: "Milk", OriginalWeight: f64(1000)}, now)
		if item.CurrentWeight == nil || *item.CurrentWeight != 1000 {
			t.Fatalf("expected current weight 1000, got %v", item.CurrentWeight)
		}
		*item.OriginalWeight = 1
		if *item.CurrentWeight != 1000 {
			t.Fatal("current weight must not alias original weight")
		}
	})

	t.Run("explicit current weight kept", func(t *testing.T) {
		item := NewItem(NewItemParams{Name: "Milk", OriginalWeight: f64(1000), CurrentWeight: f64(400)}, now)
		if *item.CurrentWeight != 400 {
			t.Fatalf("expected 400, got %v", *item.CurrentWeight)
		}
	})

	t.Run("timestamps truncated to milliseconds", func(t *testing.T) {
		item := NewItem(NewItemParams{Name: "Milk"}, now)
		if item.CreatedAt.Nanosecond()%int(time.Millisecond) != 0 {
			t.Fatalf("expected millisecond precision, got %v", item.CreatedAt)
		}
		if !item.CreatedAt.Equal(item.UpdatedAt) {
			t.Fatal("expected CreatedAt == UpdatedAt")
		}
		if item.IsPresent {
			t.Fatal("new item must not be present")
		}
	})
}

func TestItemApply(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	item := &Item{Position: Position{Plate: i32(1), Row: i32(2), Col: i32(3)}}

	present := true
	item.Apply(ItemStatePatch{IsPresent: &present, Row: i32(7), UpdatedAt: now})

	if !item.IsPresent {
		t.Fatal("expected present")
	}
	if *item.Position.Plate != 1 || *item.Position.Row != 7 || *item.Position.Col != 3 {
		t.Fatalf("unexpected position: %d/%d/%d", *item.Position.Plate, *item.Position.Row, *item.Position.Col)
	}
	if !item.UpdatedAt.Equal(now) {
		t.Fatalf("expected UpdatedAt %v, got %v", now, item.UpdatedAt)
	}

	later := now.Add(time.Hour)
	item.Apply(ItemStatePatch{UpdatedAt: later})
	if !item.UpdatedAt.Equal(now) {
		t.Fatal("empty patch must not touch UpdatedAt")
	}
}

func TestItemApplyUpdate(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	typeID := int64(4)
	item := &Item{Name: "Old", TypeID: &typeID, OriginalWeight: f64(10)}

	name := ItemName("New")
	item.ApplyUpdate(ItemUpdate{Name: &name, ClearType: true, OriginalWeight: f64(-1)}, now)

	if item.Name != "New" {
		t.Fatalf("expected name New, got %q", item.Name)
	}
	if item.TypeID != nil {
		t.Fatal("expected type cleared")
	}
	if item.OriginalWeight != nil {
		t.Fatal("negative original weight must be coerced to nil")
	}
	if !item.UpdatedAt.Equal(now) {
		t.Fatal("expected UpdatedAt bumped")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ms := int64(1736942400123)
	if got := ToMillis(FromMillis(ms)); got != ms {
		t.Fatalf("expected %d, got %d", ms, got)
	}
	if TimePtr(nil) != nil || MillisPtr(nil) != nil {
		t.Fatal("nil must map to nil")
	}
}
