package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/users"
	"github.com/google/uuid"
)

const cookieName = "studybuddy_session"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSystem struct {
	sessions  map[string]*auth.Identity
	loggedOut []string
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		sessions: map[string]*auth.Identity{
			"good-token": {UserID: uuid.New(), Name: "Ada", Email: "ada@example.com"},
		},
	}
}

func (f *fakeSystem) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	if id, ok := f.sessions[token]; ok {
		return id, nil
	}
	return nil, auth.ErrUnauthorized
}

func (f *fakeSystem) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	if email != "ada@example.com" || password != "secret" {
		return nil, users.ErrInvalidCredentials
	}
	return &auth.Session{Token: "new-token", UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeSystem) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"bearer lowercase", "bearer abc", "", "abc"},
		{"cookie", "", "xyz", "xyz"},
		{"bearer wins", "Bearer abc", "xyz", "abc"},
		{"other scheme", "Basic abc", "", ""},
		{"none", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}

			if got := auth.TokenFromRequest(req, cookieName); got != tt.want {
				t.Errorf("TokenFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantUser bool
	}{
		{"valid token", "Bearer good-token", true},
		{"unknown token", "Bearer bad-token", false},
		{"no token", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.FromContext(r.Context())
			})

			handler := auth.Middleware(newFakeSystem(), cookieName, testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if (got != nil) != tt.wantUser {
				t.Errorf("identity = %+v, want present = %v", got, tt.wantUser)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	called := false
	handler := auth.Require(testLogger(), func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("next handler called for guest")
	}
	if !strings.Contains(rec.Body.String(), "logged in") {
		t.Errorf("body = %s, want login message", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{UserID: uuid.New()}))
	handler(rec, req)

	if !called {
		t.Error("next handler not called for authenticated request")
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCookie bool
	}{
		{"valid", `{"email":"ada@example.com","password":"secret"}`, http.StatusOK, true},
		{"wrong password", `{"email":"ada@example.com","password":"nope"}`, http.StatusUnauthorized, false},
		{"malformed", `not json`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := auth.NewHandler(newFakeSystem(), cookieName, testLogger())

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var found *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == cookieName {
					found = c
				}
			}
			if (found != nil) != tt.wantCookie {
				t.Fatalf("cookie present = %v, want %v", found != nil, tt.wantCookie)
			}
			if found != nil {
				if found.Value != "new-token" || !found.HttpOnly {
					t.Errorf("cookie = %+v, want HttpOnly new-token", found)
				}
			}
		})
	}
}

func TestLogout(t *testing.T) {
	sys := newFakeSystem()
	h := auth.NewHandler(sys, cookieName, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "good-token"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if len(sys.loggedOut) != 1 || sys.loggedOut[0] != "good-token" {
		t.Errorf("loggedOut = %v, want [good-token]", sys.loggedOut)
	}
}

func TestMe(t *testing.T) {
	sys := newFakeSystem()
	h := auth.NewHandler(sys, cookieName, testLogger())

	mux := http.NewServeMux()
	for _, r := range h.Routes().Routes {
		mux.HandleFunc(r.Method+" /api/auth"+r.Pattern, r.Handler)
	}
	server := auth.Middleware(sys, cookieName, testLogger())(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var id auth.Identity
	if err := json.NewDecoder(rec.Body).Decode(&id); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.Name != "Ada" {
		t.Errorf("Name = %q, want Ada", id.Name)
	}

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("guest status = %d, want 401", rec.Code)
	}
}
