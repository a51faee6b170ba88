// Package apperrors defines the domain error taxonomy and its HTTP mapping.
// Services classify failures into these errors; handlers only translate them.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when an entity does not exist or is owned by a
	// different user. The two cases are deliberately indistinguishable so that
	// error codes never leak another user's data.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a store-level uniqueness constraint is
	// violated, typically by two concurrent reconciliations racing on the same
	// (user, name) pair. The caller may retry the whole operation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned for any login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering with an email that exists.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError reports malformed or missing input for a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPStatus maps a domain error to a transport status code.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
