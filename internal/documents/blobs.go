package documents

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/pkg/handlers"
	"github.com/JaimeStill/studybuddy/pkg/routes"
	"github.com/JaimeStill/studybuddy/pkg/storage"
)

// BlobHandler serves stored files back to their owner for backends without a
// public endpoint of their own. Keys begin with the owner's user id.
type BlobHandler struct {
	store  storage.System
	logger *slog.Logger
}

func NewBlobHandler(store storage.System, logger *slog.Logger) *BlobHandler {
	return &BlobHandler{
		store:  store,
		logger: logger.With("handler", "blobs"),
	}
}

// Routes is mounted outside the API base path, at the storage public URL.
func (h *BlobHandler) Routes(prefix string) routes.Group {
	return routes.Group{
		Prefix: prefix,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: auth.Require(h.logger, h.Serve)},
		},
	}
}

func (h *BlobHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	key, err := storage.CleanKey(r.PathValue("key"))
	if err != nil || !strings.HasPrefix(key, id.UserID.String()+"/") {
		handlers.RespondMessage(w, h.logger, http.StatusNotFound, errors.New("blob outside caller scope"), msgNotFound)
		return
	}

	data, err := h.store.Retrieve(r.Context(), key)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Unable to load the file right now. Please try again."
		if errors.Is(err, storage.ErrNotFound) {
			status, msg = http.StatusNotFound, msgNotFound
		}
		handlers.RespondMessage(w, h.logger, status, err, msg)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": path.Base(key)}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
