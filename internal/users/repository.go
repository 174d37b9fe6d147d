package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/studybuddy/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const columns = `id, email, name, password_hash, created_at`

type repo struct {
	db     *sql.DB
	cost   int
	logger *slog.Logger
}

// New creates a user repository. Passwords are hashed at bcrypt cost.
func New(db *sql.DB, cost int, logger *slog.Logger) System {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &repo{
		db:     db,
		cost:   cost,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Create(ctx context.Context, cmd SignupCommand) (*User, error) {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	q := `INSERT INTO users(id, email, name, password_hash)
		VALUES($1, $2, $3, $4)
		RETURNING ` + columns

	user, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), cmd.Email, cmd.Name, string(hash)}, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user created", "id", user.ID)
	return &user, nil
}

func (r *repo) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	q := `SELECT ` + columns + ` FROM users WHERE email = $1`
	user, err := repository.QueryOne(ctx, r.db, q, []any{email}, scanUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE id = $1`
	user, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &user, nil
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
