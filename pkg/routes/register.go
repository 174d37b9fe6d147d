// Package routes declares HTTP route groups and registers them on a ServeMux
// together with their OpenAPI operations.
package routes

import (
	"net/http"

	"github.com/JaimeStill/studybuddy/pkg/openapi"
)

// Register adds every route in groups to mux under basePath and records its
// operation in spec. Group tags are applied to operations that declare none.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, g := range groups {
		registerGroup(mux, basePath, spec, g)
	}
}

func registerGroup(mux *http.ServeMux, parent string, spec *openapi.Spec, g Group) {
	prefix := parent + g.Prefix

	for _, r := range g.Routes {
		path := prefix + r.Pattern
		mux.HandleFunc(r.Method+" "+path, r.Handler)

		if spec != nil && r.OpenAPI != nil {
			if len(r.OpenAPI.Tags) == 0 {
				r.OpenAPI.Tags = g.Tags
			}
			spec.AddOperation(r.Method, path, r.OpenAPI)
		}
	}

	for _, child := range g.Children {
		registerGroup(mux, prefix, spec, child)
	}
}
