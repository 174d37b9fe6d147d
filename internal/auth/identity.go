// Package auth issues opaque session tokens and resolves them to a user identity
// for each request. Tokens are accepted as a bearer header or a cookie.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// Session is an issued token. Token is only populated on Login.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity attached by Middleware, or nil for guests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
