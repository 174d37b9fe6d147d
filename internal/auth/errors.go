package auth

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/studybuddy/internal/users"
)

// Domain errors for session operations.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrExpired      = errors.New("session expired")
)

// User-facing messages.
const (
	MsgLoginRequired = "You must be logged in to continue. Please sign in and try again."
	MsgInvalidLogin  = "The email or password you entered is incorrect. Please try again."
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrExpired),
		errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
