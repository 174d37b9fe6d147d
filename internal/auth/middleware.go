package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/studybuddy/pkg/handlers"
)

// Middleware resolves the request token, when present, and attaches the identity
// to the request context. Requests with a missing or invalid token continue as guests.
func Middleware(resolver Resolver, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrUnauthorized) {
					logger.Error("session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Require rejects requests without an identity.
func Require(logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			handlers.RespondMessage(w, logger, http.StatusUnauthorized, ErrUnauthorized, MsgLoginRequired)
			return
		}
		next(w, r)
	}
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}
