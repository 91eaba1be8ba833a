package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an error when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateKey indicates an error when a key uniqueness is violated
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrRetryExecution indicates a transient storage failure worth retrying
	ErrRetryExecution = errors.New("retry execution")

	// ErrConcurrentUpdate indicates the row version advanced between read and write
	ErrConcurrentUpdate = errors.New("concurrent update")

	// ErrValidation indicates a structurally invalid incoming event
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a business-rule violation that must not be applied
	ErrConflict = errors.New("conflict")
)

// Conflict reasons surfaced to the conflict sink.
const (
	ReasonIllegalTransition      = "illegal-transition"
	ReasonImmutableFieldMismatch = "immutable-field-mismatch"
)

// ValidationError описывает нарушение контракта входящего события
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError создает ошибку валидации для поля
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError описывает нарушение бизнес-инварианта для события
type ConflictError struct {
	OrderID string
	EventID string
	Reason  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict for order %q (event %q): %s", e.OrderID, e.EventID, e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
