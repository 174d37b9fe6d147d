package users_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/JaimeStill/studybuddy/internal/users"
)

func TestSignupCommand_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cmd    users.SignupCommand
		fields []string
	}{
		{"valid", users.SignupCommand{Name: "Ada", Email: "ada@example.com", Password: "secret"}, nil},
		{"all missing", users.SignupCommand{}, []string{"name", "email", "password"}},
		{"bad email", users.SignupCommand{Name: "Ada", Email: "ada@example", Password: "secret"}, []string{"email"}},
		{"email with space", users.SignupCommand{Name: "Ada", Email: "a da@example.com", Password: "secret"}, []string{"email"}},
		{"missing password", users.SignupCommand{Name: "Ada", Email: "ada@example.com"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *users.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if !errors.Is(err, users.ErrValidation) {
				t.Error("ValidationError does not match ErrValidation")
			}

			if len(verr.Fields) != len(tt.fields) {
				t.Fatalf("len(Fields) = %d, want %d", len(verr.Fields), len(tt.fields))
			}
			for i, f := range tt.fields {
				if verr.Fields[i].Field != f {
					t.Errorf("Fields[%d].Field = %q, want %q", i, verr.Fields[i].Field, f)
				}
				if verr.Fields[i].Message == "" {
					t.Errorf("Fields[%d].Message is empty", i)
				}
			}
		})
	}
}

func TestSignupCommand_Normalize(t *testing.T) {
	cmd := users.SignupCommand{Name: "  Ada  ", Email: " Ada@Example.COM "}
	cmd.Normalize()

	if cmd.Name != "Ada" {
		t.Errorf("Name = %q, want %q", cmd.Name, "Ada")
	}
	if cmd.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", cmd.Email, "ada@example.com")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", users.ErrNotFound, http.StatusNotFound},
		{"duplicate", users.ErrDuplicate, http.StatusConflict},
		{"credentials", users.ErrInvalidCredentials, http.StatusUnauthorized},
		{"validation", &users.ValidationError{}, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := users.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
