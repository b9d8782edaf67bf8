// Package services contains stateless domain services for the inventory
// bounded context. Domain services enforce business rules that operate purely
// on domain types and have zero external dependencies beyond stdlib and the
// domain layer.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// ValidateName enforces business rules for names beyond the structural
// constraints enforced by the ItemName constructor (length 1–255).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
//   - Must not be only whitespace characters
func ValidateName(name models.ItemName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name must not be only whitespace")
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("name must not contain consecutive spaces")
	}

	return nil
}

// ParseName builds and validates a name, reporting failures as a
// ValidationError on field.
func ParseName(field, s string) (models.ItemName, error) {
	name, err := models.NewItemName(s)
	if err != nil {
		return "", domain.NewValidationError(field, err.Error())
	}
	if err := ValidateName(name); err != nil {
		return "", domain.NewValidationError(field, err.Error())
	}
	return name, nil
}

// ValidateItemForCreation performs cross-field validation on a fully
// constructed Item before it is persisted.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	ve := &domain.ValidationError{}
	if err := ValidateName(item.Name); err != nil {
		ve.Add("name", err.Error())
	}
	if item.ID != 0 {
		ve.Add("id", "must not be set on creation")
	}
	if item.IsPresent {
		ve.Add("is_present", "new items start absent; record an in event instead")
	}
	return ve.OrNil()
}
