// Package errhttp maps domain errors to HTTP status codes.
// Domain errors wrap one of the inventory error kinds, so mapping is by kind
// rather than by individual sentinel.
package errhttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/ghuser/shelfaware/pkg/httpx"
	"github.com/ghuser/shelfaware/services/inventory/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Validation errors carry their per-field messages under "fields".
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	write(w, err, false)
}

// WriteSafeError behaves like WriteError but hides 5xx detail when
// isProduction is set.
func WriteSafeError(w http.ResponseWriter, err error, isProduction bool) {
	write(w, err, isProduction)
}

func write(w http.ResponseWriter, err error, isProduction bool) {
	status := mapErrorToStatus(err)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		httpx.JSON(w, status, map[string]any{
			"error":  "Validation failed",
			"fields": ve.Fields,
		})
		return
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrItemTypeCycle):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError // 500
	}
}
