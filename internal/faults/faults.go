// Package faults defines the error taxonomy shared by ingestion, retrieval, and chat.
// Each failure carries a kind for control flow and HTTP mapping, a user-facing message,
// and the internal cause, which is logged but never shown to users.
package faults

import (
	"errors"
	"net/http"
)

// Error kinds.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrServiceUnavailable   = errors.New("service unavailable")
	ErrProcessingFailed     = errors.New("processing failed")
	ErrNoExtractableContent = errors.New("no extractable content")
	ErrEmbeddingService     = errors.New("embedding service error")
	ErrGeneration           = errors.New("generation error")
	ErrPersistence          = errors.New("persistence error")
	ErrUnauthorized         = errors.New("unauthorized")
)

// ErrTooLarge refines ErrInvalidInput for payloads above the upload ceiling.
var ErrTooLarge = errors.New("payload too large")

const fallbackMessage = "An unexpected error occurred. Please try again. If the problem continues, contact support."

// Error is a classified failure with a message safe to show to users.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// New creates an Error of kind with a user-facing message and an optional internal cause.
func New(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.Error() + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Message returns the user-facing text of err. Errors that are not classified
// produce a generic message so internal details never reach the client.
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return fallbackMessage
}

// Retryable reports whether the caller may retry the same request unchanged.
func Retryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrEmbeddingService) ||
		errors.Is(err, ErrGeneration)
}

// MapHTTPStatus converts an error kind to an HTTP status code.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrProcessingFailed), errors.Is(err, ErrNoExtractableContent):
		return http.StatusUnprocessableEntity
	case Retryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
