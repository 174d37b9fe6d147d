package documents

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/pkg/handlers"
	"github.com/JaimeStill/studybuddy/pkg/pagination"
	"github.com/JaimeStill/studybuddy/pkg/routes"
	"github.com/google/uuid"
)

const (
	msgNotFound   = "The requested file could not be found. It may have already been removed."
	msgListFailed = "Unable to load your files at this time. Please refresh the page and try again. If the problem continues, contact support."
)

// Handler provides HTTP endpoints for document operations.
// Upload lives with the ingestion pipeline.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a document handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "documents"),
		pagination: pagination,
	}
}

// Routes returns the document endpoint route group. Every route requires a session.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Tags:        []string{"Documents"},
		Description: "Uploaded document management",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: auth.Require(h.logger, h.List), OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: auth.Require(h.logger, h.Find), OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: auth.Require(h.logger, h.Delete), OpenAPI: Spec.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), id.UserID, page, filters)
	if err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusInternalServerError, err, msgListFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err, "Invalid document id.")
		return
	}

	doc, err := h.sys.Find(r.Context(), id.UserID, docID)
	if err != nil {
		h.respondLookup(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err, "Invalid document id.")
		return
	}

	if err := h.sys.Delete(r.Context(), id.UserID, docID); err != nil {
		h.respondLookup(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondLookup(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	msg := msgNotFound
	if status != http.StatusNotFound {
		msg = "Unable to complete the request at this time. Please refresh the page and try again. If the problem persists, contact support."
	}
	handlers.RespondMessage(w, h.logger, status, err, msg)
}
