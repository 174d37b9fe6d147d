package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/studybuddy/internal/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:embed seeds/*.json
var seedFiles embed.FS

func init() {
	registerSeeder(&UserSeeder{})
}

// UserSeedData represents the JSON structure for user seed files.
type UserSeedData struct {
	Users []users.SignupCommand `json:"users"`
}

// UserSeeder creates demo accounts. Existing emails keep their password.
type UserSeeder struct {
	file string
}

func (s *UserSeeder) Name() string {
	return "users"
}

func (s *UserSeeder) Description() string {
	return "Seeds demo user accounts"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *UserSeeder) SetFile(path string) {
	s.file = path
}

func (s *UserSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, cmd := range data.Users {
		cmd.Normalize()
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("user %s: %w", cmd.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", cmd.Email, err)
		}

		const query = `
			INSERT INTO users (id, name, email, password_hash)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name`

		if _, err := tx.ExecContext(ctx, query, uuid.New(), cmd.Name, cmd.Email, string(hash)); err != nil {
			return fmt.Errorf("save user %s: %w", cmd.Email, err)
		}
	}

	return nil
}

func (s *UserSeeder) loadSeedData() (*UserSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/users.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data UserSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	return &data, nil
}
