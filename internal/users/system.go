package users

import (
	"context"

	"github.com/google/uuid"
)

// System defines account operations.
type System interface {
	Handler() *Handler
	Create(ctx context.Context, cmd SignupCommand) (*User, error)
	// Authenticate returns ErrInvalidCredentials for both unknown emails and wrong passwords.
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)
}
