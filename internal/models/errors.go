package models

import (
	"errors"
	"fmt"
)

// Error kinds reported by the card store. Callers branch on them with errors.Is.
var (
	// ErrNotFound indicates that no card has the requested identifier
	ErrNotFound = errors.New("card not found")

	// ErrStorageUnavailable indicates that the database could not be opened, read or written
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConstraintViolation indicates that a write broke a schema constraint
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStoreClosed indicates that the store no longer accepts requests
	ErrStoreClosed = errors.New("store is closed")
)

// StoreError carries the operation, the error kind and the underlying cause.
type StoreError struct {
	Op   string // "insert", "update", "delete", "get", "query", ...
	Kind error  // one of the Err* kinds above
	ID   int64  // card identifier, when the operation targeted one
	Err  error  // underlying driver error, may be nil
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.ID != 0 {
		msg = fmt.Sprintf("%s: card %d: %v", e.Op, e.ID, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds a StoreError of kind ErrNotFound
func NotFound(op string, id int64) error {
	return &StoreError{Op: op, Kind: ErrNotFound, ID: id}
}
