package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/studybuddy/internal/users"
	"github.com/JaimeStill/studybuddy/pkg/repository"
)

const tokenBytes = 32

// Resolver maps a token to the identity it was issued for.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// System defines session operations.
type System interface {
	Resolver
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
}

// Config controls session lifetime and the cookie carrying the token.
type Config struct {
	SessionTTL time.Duration
	CookieName string
}

type repo struct {
	db     *sql.DB
	users  users.System
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a session store backed by db. Credentials are checked through accounts.
func New(db *sql.DB, accounts users.System, ttl time.Duration, logger *slog.Logger) System {
	return &repo{
		db:     db,
		users:  accounts,
		ttl:    ttl,
		logger: logger.With("system", "auth"),
	}
}

func (r *repo) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := r.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(r.ttl).UTC(),
	}

	q := `INSERT INTO sessions(token, user_id, expires_at) VALUES($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, q, digest(token), s.UserID, s.ExpiresAt); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	r.logger.Info("session created", "user_id", user.ID)
	return s, nil
}

func (r *repo) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	q := `SELECT u.id, u.name, u.email, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`

	type row struct {
		id      Identity
		expires time.Time
	}

	res, err := repository.QueryOne(ctx, r.db, q, []any{digest(token)}, func(s repository.Scanner) (row, error) {
		var rw row
		err := s.Scan(&rw.id.UserID, &rw.id.Name, &rw.id.Email, &rw.expires)
		return rw, err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	if !time.Now().Before(res.expires) {
		if err := r.Logout(ctx, token); err != nil {
			r.logger.Warn("expired session cleanup failed", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrExpired)
	}

	return &res.id, nil
}

func (r *repo) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, digest(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// digest is the form a token is stored and looked up in.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
