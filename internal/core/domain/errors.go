package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	// ErrNotFound covers both a missing row and a row owned by another user.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries every field violation found in one input.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a ValidationError for the given violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ConflictError names the unique field that is already taken.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case "username":
		return "Username already taken"
	case "email":
		return "Email already registered"
	default:
		return "Username or email already exists"
	}
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
