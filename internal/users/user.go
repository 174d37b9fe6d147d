// Package users manages accounts: signup with validated input and bcrypt
// password hashes, and credential checks for login.
package users

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupCommand contains the data required to register a user.
type SignupCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Normalize trims the name and lowercases the email.
func (c *SignupCommand) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

// Validate returns a *ValidationError listing every invalid field, or nil.
func (c SignupCommand) Validate() error {
	var fields []FieldError

	if c.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "Please enter your full name to create your account."})
	}
	if c.Email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "Please enter your email address. This will be used to sign in to your account."})
	}
	if c.Password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "Please create a password for your account. Choose a strong password to keep your account secure."})
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "Please enter a valid email address. Email addresses should be in the format: yourname@example.com"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
