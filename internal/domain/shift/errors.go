package shift

import (
	"errors"
	"fmt"
)

var (
	ErrShiftNotFound = errors.New("expected shift not found")
	ErrEntryNotFound = errors.New("shift entry not found")
	ErrEntryExists   = errors.New("shift already has an entry")
)

// ValidationError reports a bad input (future date, negative money field,
// malformed time). It is always recoverable locally and is surfaced as a
// field-level message, never logged as a failure.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidStateError guards illegal status transitions. It indicates a
// wiring defect in the caller, not bad user input.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid shift status transition %s -> %s", e.From, e.To)
}

// PersistenceError wraps a storage failure with the operation that hit it.
// Retries are the caller's concern; the in-memory model stays untouched.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
