package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when a single-row expectation
// yields no row.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err is a not-found condition from either
// this package or the underlying gorm store.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
