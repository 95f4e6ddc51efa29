package store

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input to a store write: a negative
// predicted value, a date that does not parse, an empty event kind. The
// caller can recover by correcting the input; it is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps an underlying persistence I/O failure so callers can
// distinguish "no data" from "storage broken". Ingestion pipelines log and
// skip the cycle on StorageError rather than crashing.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ValidatePredicted checks the non-negativity contract for predicted or
// actual quantities. Absence of a value is "not yet known", never zero, so
// only present values are checked.
func ValidatePredicted(field string, v float64) error {
	if v < 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be non-negative, got %v", v)}
	}
	return nil
}
