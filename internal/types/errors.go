package types

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks requests rejected before any planning stage runs.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a failed write while assembling a plan. Callers may retry.
	ErrPersistence = errors.New("persistence failed")
	// ErrNotFound is returned when a plan does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrGenerationFailed covers unexpected pipeline failures.
	ErrGenerationFailed = errors.New("plan generation failed")
)

// ValidationError describes a single rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
