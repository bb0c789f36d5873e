package database

import (
	"context"
	"errors"
	"fmt"
)

// InvalidArgumentError represents a caller-fixable input error (bad
// granularity, limit or horizon out of range). It is never retried.
type InvalidArgumentError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface
func (e *InvalidArgumentError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invalid argument '%s': %s (value: %v)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Reason)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s not found: %v", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// DataUnavailableError represents a failed or timed-out ledger read. The
// caller may retry; this system never retries internally.
type DataUnavailableError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable in %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// WrapReadError wraps a ledger read failure with operation context. Context
// cancellation and deadline expiry are folded in here as well, so a slow read
// surfaces the same way as a broken one.
func WrapReadError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &DataUnavailableError{
		Operation: operation,
		Err:       err,
	}
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, reason string) error {
	return &InvalidArgumentError{
		Field:  field,
		Reason: reason,
	}
}

// NewInvalidArgumentErrorWithValue creates a new InvalidArgumentError with the offending value
func NewInvalidArgumentErrorWithValue(field, reason string, value interface{}) error {
	return &InvalidArgumentError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource string) error {
	return &NotFoundError{
		Resource: resource,
	}
}

// NewNotFoundErrorWithID creates a new NotFoundError with an ID
func NewNotFoundErrorWithID(resource string, id interface{}) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsInvalidArgument reports whether err is an InvalidArgumentError
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsDataUnavailable reports whether err is a DataUnavailableError, including
// context cancellation surfaced through a wrapped read.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	if errors.As(err, &target) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
