package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every domain error wraps exactly one of these so transport
// layers can map with errors.Is without knowing the concrete entity.
var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
)

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrItemTypeNotFound = fmt.Errorf("item type %w", ErrNotFound)
	ErrTagNotFound      = fmt.Errorf("tag %w", ErrNotFound)
	ErrImageNotFound    = fmt.Errorf("image %w", ErrNotFound)

	ErrTagUIDTaken          = fmt.Errorf("%w: tag uid already registered", ErrConflict)
	ErrItemTypeNameTaken    = fmt.Errorf("%w: item type name already exists", ErrConflict)
	ErrImageKeyTaken        = fmt.Errorf("%w: image storage key already exists", ErrConflict)
	ErrImageAlreadyReplaced = fmt.Errorf("%w: image has already been replaced", ErrConflict)

	// ErrItemTypeCycle is returned when the parent chain of an item type loops.
	ErrItemTypeCycle = errors.New("item type hierarchy contains a cycle")
)

// ValidationError carries per-field messages. It unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a message for field and returns the receiver for chaining.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
	return e
}

// OrNil returns nil when no field errors were recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
