// Package api assembles the domain systems into the JSON API handler.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/config"
	"github.com/JaimeStill/studybuddy/internal/infrastructure"
	"github.com/JaimeStill/studybuddy/pkg/middleware"
	"github.com/JaimeStill/studybuddy/pkg/openapi"
	"github.com/JaimeStill/studybuddy/pkg/routes"
	"github.com/JaimeStill/studybuddy/web/docs"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// NewHandler builds the API mux under cfg.API.BasePath with its middleware stack.
// Every API request passes through session resolution; routes that need a user
// enforce it themselves.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime, cfg)
	if err != nil {
		return nil, err
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	mux.HandleFunc("GET "+cfg.API.BasePath+"/openapi.json", openapi.ServeSpec(specBytes))
	routes.Register(mux, cfg.API.BasePath, nil, docs.NewHandler().Routes())

	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.CORS(&cfg.API.CORS))
	mw.Use(middleware.Logger(runtime.Logger))
	mw.Use(runtime.Metrics.Middleware())
	mw.Use(auth.Middleware(domain.Auth, cfg.Auth.CookieName, runtime.Logger))

	return mw.Apply(mux), nil
}
