package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPayload  = &ValidationError{Message: "invalid request body"}
)

// ValidationError is returned when caller supplied data breaks a product constraint.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Title returns the message with its first letter upper-cased, as shown to API clients.
func (e *ValidationError) Title() string {
	if e.Message == "" {
		return e.Message
	}
	return strings.ToUpper(e.Message[:1]) + e.Message[1:]
}

// StorageError wraps a failure of the underlying storage adapter.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
