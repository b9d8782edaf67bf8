// Package validator decodes and validates request bodies. JSON and form
// bodies are accepted; struct tags from go-playground/validator drive the
// checks and failures come back as a 422 with per-field messages keyed by
// the JSON field name.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/shelfaware/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message. Other errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, e := range ve {
		out[e.Field()] = fieldMessage(e)
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "hexadecimal":
		return "Must be hexadecimal"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// ValidateRequest decodes the body into T and validates it. On failure it
// writes the response itself and returns false:
//   - 413 when the body exceeds the router's size cap
//   - 400 when the body is empty or malformed
//   - 422 with per-field messages when coercion or validation fails
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if isForm(r) {
		fieldErrs, err := decodeForm(r, &req)
		if err != nil {
			writeDecodeError(w, err, "Invalid form body")
			return nil, false
		}
		if len(fieldErrs) > 0 {
			writeFieldErrors(w, fieldErrs)
			return nil, false
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err, "Invalid JSON")
		return nil, false
	}

	if err := Validate(&req); err != nil {
		writeFieldErrors(w, FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}

func writeDecodeError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, io.EOF):
		httpx.JSONError(w, http.StatusBadRequest, "Request body is required")
	default:
		httpx.JSONError(w, http.StatusBadRequest, msg)
	}
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "Validation failed",
		"fields": fields,
	})
}
