package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/studybuddy/pkg/handlers"
	"github.com/JaimeStill/studybuddy/pkg/routes"
)

// Handler provides login, logout, and identity endpoints.
type Handler struct {
	sys        System
	cookieName string
	logger     *slog.Logger
}

// NewHandler creates an auth handler that issues cookies named cookieName.
func NewHandler(sys System, cookieName string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		cookieName: cookieName,
		logger:     logger.With("handler", "auth"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Routes returns the auth endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/auth",
		Tags:        []string{"Auth"},
		Description: "Session management",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/login", Handler: h.Login, OpenAPI: Spec.Login},
			{Method: "POST", Pattern: "/logout", Handler: h.Logout, OpenAPI: Spec.Logout},
			{Method: "GET", Pattern: "/me", Handler: Require(h.logger, h.Me), OpenAPI: Spec.Me},
		},
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := MapHTTPStatus(err)
		msg := MsgInvalidLogin
		if status == http.StatusInternalServerError {
			msg = "Unable to sign you in right now. Please try again in a few moments."
		}
		handlers.RespondMessage(w, h.logger, status, err, msg)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	handlers.RespondJSON(w, http.StatusOK, s)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r, h.cookieName)
	if err := h.sys.Logout(r.Context(), token); err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusInternalServerError, err, "Unable to sign you out right now. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, FromContext(r.Context()))
}
