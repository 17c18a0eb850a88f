package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when a batch repeats a transaction's internal id.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput marks malformed collaborator input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when an archived run does not exist.
	ErrNotFound = errors.New("not found")
)

// DuplicateKeyError names the repeated internal id.
type DuplicateKeyError struct {
	InternalID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate transaction internal id %q", e.InternalID)
}

// Is implements errors.Is support.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ValidationError describes a field that could not be parsed.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
