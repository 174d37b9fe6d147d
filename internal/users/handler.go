package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/studybuddy/pkg/handlers"
	"github.com/JaimeStill/studybuddy/pkg/routes"
)

const msgSignupFailed = "Unable to create your account at this time. This may be due to a temporary server issue. Please try again in a few moments. If the problem persists, contact support."

// Handler provides HTTP endpoints for account registration.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a users handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the users endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/users",
		Tags:        []string{"Users"},
		Description: "Account registration",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Signup, OpenAPI: Spec.Signup},
		},
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var cmd SignupCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	user, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			handlers.RespondJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "Please correct the highlighted fields and try again.",
				"fields": verr.Fields,
			})
		case errors.Is(err, ErrDuplicate):
			handlers.RespondMessage(w, h.logger, http.StatusConflict, err, DuplicateMessage(cmd.Email))
		default:
			handlers.RespondMessage(w, h.logger, MapHTTPStatus(err), err, msgSignupFailed)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, user)
}
