package services

import (
	"errors"
	"testing"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   models.ItemName
		wantErr bool
	}{
		{"valid name", "Whole Milk 1L", false},
		{"valid punctuation", "Oats (rolled)", false},
		{"leading whitespace", " Milk", true},
		{"trailing whitespace", "Milk ", true},
		{"only whitespace", "   ", true},
		{"tab character", "Milk\tCarton", true},
		{"newline character", "Milk\nCarton", true},
		{"consecutive spaces", "Whole  Milk", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseName(t *testing.T) {
	if _, err := ParseName("name", "Butter"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, in := range []string{"", " Butter"} {
		_, err := ParseName("name", in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Fields["name"] == "" {
			t.Fatalf("ParseName(%q): expected name field error, got %v", in, err)
		}
	}
}

func TestValidateItemForCreation(t *testing.T) {
	t.Run("nil item returns error", func(t *testing.T) {
		if err := ValidateItemForCreation(nil); err == nil {
			t.Fatal("expected error for nil item")
		}
	})

	t.Run("valid item returns nil", func(t *testing.T) {
		item := models.NewItem(models.NewItemParams{Name: "Butter"}, ms(1))
		if err := ValidateItemForCreation(item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("preset id and presence rejected", func(t *testing.T) {
		item := &models.Item{ID: 7, Name: "Butter", IsPresent: true}
		err := ValidateItemForCreation(item)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if ve.Fields["id"] == "" || ve.Fields["is_present"] == "" {
			t.Fatalf("expected id and is_present errors, got %v", ve.Fields)
		}
	})
}
