// Package docs serves the interactive API reference for the published OpenAPI document.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/JaimeStill/studybuddy/pkg/routes"
)

//go:embed index.html
var indexHTML []byte

// Handler serves the Scalar API reference page.
type Handler struct{}

// NewHandler creates a documentation handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns the route group for the documentation page. The page loads
// openapi.json relative to its own path, so it must be mounted beside it.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/docs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.serveIndex},
		},
	}
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML)
}
