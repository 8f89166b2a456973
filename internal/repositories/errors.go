package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err carries a record-not-found condition
// from the storage layer, regardless of wrapping.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
