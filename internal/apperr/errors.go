// Package apperr defines the sentinel errors shared across the application.
//
// ErrNotFound is reserved for operations that require the row to exist
// (rename, order swap); plain lookups report a miss with a zero value and a
// nil error, because a dangling reference is a normal state, not a fault.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
