// Package fault defines the error kinds shared across the ledger services:
// invalid input (rejected before any store call), not found, and storage
// failures. Handlers map these to HTTP status codes.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks operations targeting an id or category that no
	// longer exists. Callers should surface it, not retry.
	ErrNotFound = errors.New("not found")

	// ErrInvalid marks input rejected by validation. It never reaches the
	// store.
	ErrInvalid = errors.New("invalid input")
)

// InvalidError describes a single rejected field. It unwraps to ErrInvalid so
// callers can test with errors.Is.
type InvalidError struct {
	Field  string
	Reason string
}

func (e InvalidError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e InvalidError) Unwrap() error {
	return ErrInvalid
}

// Invalid builds an InvalidError for the given field.
func Invalid(field, reason string) error {
	return InvalidError{Field: field, Reason: reason}
}

// StorageError wraps an underlying persistence failure. It is fatal to the
// triggering command but not to the process, and is never retried
// automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError. A nil err returns nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se StorageError
	return errors.As(err, &se)
}
