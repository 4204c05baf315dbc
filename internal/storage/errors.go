package storage

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by all stores. Handlers map these to 404/409.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("duplicate key")
)

// wrapErr normalizes gorm errors to the store sentinels.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
