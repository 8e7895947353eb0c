package database

import (
	"context"
	"errors"

	"github.com/bbct/bbct/internal/models"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// classify wraps a driver error in a models.StoreError of the matching kind.
// Context cancellation is returned unchanged so callers can tell it apart.
func classify(op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var storeErr *models.StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	kind := models.ErrStorageUnavailable
	if isConstraintViolation(err) {
		kind = models.ErrConstraintViolation
	}
	return &models.StoreError{Op: op, Kind: kind, ID: id, Err: err}
}

// isConstraintViolation reports whether err is any SQLITE_CONSTRAINT result.
// Extended codes carry the primary code in their low byte.
func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
}
