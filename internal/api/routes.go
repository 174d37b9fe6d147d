package api

import (
	"net/http"
	"net/url"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/chat"
	"github.com/JaimeStill/studybuddy/internal/config"
	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/internal/ingestion"
	"github.com/JaimeStill/studybuddy/internal/users"
	"github.com/JaimeStill/studybuddy/pkg/openapi"
	"github.com/JaimeStill/studybuddy/pkg/routes"
	"github.com/JaimeStill/studybuddy/pkg/storage"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	usersHandler := domain.Users.Handler()
	authHandler := auth.NewHandler(domain.Auth, cfg.Auth.CookieName, runtime.Logger)
	documentsHandler := domain.Documents.Handler()
	uploadHandler := domain.Ingestion.Handler()
	chatHandler := domain.Chat.Handler()

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		usersHandler.Routes(),
		authHandler.Routes(),
		documentsHandler.Routes(),
		uploadHandler.Routes(),
		chatHandler.Routes(),
	)

	if prefix := blobPrefix(&cfg.Storage); prefix != "" {
		blobs := documents.NewBlobHandler(runtime.Storage, runtime.Logger)
		routes.Register(mux, "", nil, blobs.Routes(prefix))
	}

	for _, schemas := range []map[string]*openapi.Schema{
		users.Spec.Schemas(),
		auth.Spec.Schemas(),
		documents.Spec.Schemas(),
		ingestion.Spec.Schemas(),
		chat.Spec.Schemas(),
	} {
		for name, schema := range schemas {
			spec.AddSchema(name, schema)
		}
	}
}

// blobPrefix is the path the filesystem backend's public URLs resolve to.
// Other backends serve their own URLs.
func blobPrefix(cfg *storage.Config) string {
	if cfg.Backend != storage.BackendFilesystem {
		return ""
	}
	u, err := url.Parse(cfg.PublicURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	return u.Path
}
