package services

import (
	"errors"

	"github.com/ghuser/shelfaware/services/inventory/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
