package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrValidation        = errors.New("validation failed")
	ErrNoStorage         = errors.New("no storage adapter configured")
	ErrUnknownType       = errors.New("unknown minion type")
	ErrNotFound          = errors.New("minion not found")
	ErrNextCalledTwice   = errors.New("next() called multiple times")
	ErrNoResult          = errors.New("operation produced no result")
	ErrReadOnly          = errors.New("storage is in read-only mode")
	ErrTransactionClosed = errors.New("transaction already closed")
)

// ValidationError describes one violated constraint on one field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (e ValidationError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is the outcome of validating a field map.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// ValidationFailure is returned by operations that reject invalid input.
// It matches ErrValidation with errors.Is.
type ValidationFailure struct {
	Errors []ValidationError
}

func (e *ValidationFailure) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.String())
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationFailure) Is(target error) bool {
	return target == ErrValidation
}

// AsFailure converts an invalid result into a *ValidationFailure.
// It returns nil when the result is valid.
func (r ValidationResult) AsFailure() error {
	if r.Valid {
		return nil
	}
	return &ValidationFailure{Errors: r.Errors}
}
