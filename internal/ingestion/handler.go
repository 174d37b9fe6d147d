package ingestion

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/internal/faults"
	"github.com/JaimeStill/studybuddy/pkg/handlers"
	"github.com/JaimeStill/studybuddy/pkg/routes"
	"github.com/docker/go-units"
)

const (
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
	retryAfterSeconds = "5"
)

// Handler accepts PDF uploads and runs them through the pipeline.
type Handler struct {
	sys           System
	maxUploadSize int64
	logger        *slog.Logger
}

// NewHandler creates an upload handler. Request bodies larger than maxUploadSize are rejected.
func NewHandler(sys System, maxUploadSize int64, logger *slog.Logger) *Handler {
	return &Handler{
		sys:           sys,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("handler", "ingestion"),
	}
}

// UploadResponse is returned after a successful ingestion.
type UploadResponse struct {
	Document *documents.Document `json:"document"`
	Chunks   int                 `json:"chunks"`
	Message  string              `json:"message"`
}

// Routes returns the upload route, mounted beside the document routes.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Tags:        []string{"Documents"},
		Description: "Uploaded document management",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: auth.Require(h.logger, h.Upload), OpenAPI: Spec.Upload},
		},
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	if h.maxUploadSize > 0 {
		limit := h.maxUploadSize + multipartOverhead
		if r.ContentLength > limit {
			h.respondTooLarge(w, fmt.Errorf("content length %d exceeds %d", r.ContentLength, limit))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondTooLarge(w, err)
			return
		}
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err, msgEmpty)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err, msgEmpty)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err, msgEmpty)
		return
	}

	result, err := h.sys.Ingest(r.Context(), id.UserID, Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		if faults.Retryable(err) {
			w.Header().Set("Retry-After", retryAfterSeconds)
		}
		handlers.RespondMessage(w, h.logger, faults.MapHTTPStatus(err), err, faults.Message(err))
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{
		Document: result.Document,
		Chunks:   result.Chunks,
		Message:  result.Summary(),
	})
}

func (h *Handler) respondTooLarge(w http.ResponseWriter, err error) {
	msg := fmt.Sprintf("The file is too large. Maximum file size allowed is %s. Please compress your PDF or choose a smaller file.",
		units.BytesSize(float64(h.maxUploadSize)))
	handlers.RespondMessage(w, h.logger, http.StatusRequestEntityTooLarge, err, msg)
}
