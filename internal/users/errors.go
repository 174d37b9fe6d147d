package users

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for user operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicate          = errors.New("user email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("invalid signup input")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field messages. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d field(s)", ErrValidation, len(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateMessage is shown when an email is already registered.
func DuplicateMessage(email string) string {
	return fmt.Sprintf(`An account with the email "%s" already exists. Please sign in instead, or use a different email address to create a new account.`, email)
}

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
