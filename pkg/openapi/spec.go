package openapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// NewSpec creates an OpenAPI 3.1 document with the shared error responses
// and the bearer session scheme pre-registered.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:   title,
			Version: version,
		},
		Paths: make(map[string]*PathItem),
		Components: &Components{
			Schemas: map[string]*Schema{
				"Error": {
					Type: "object",
					Properties: map[string]*Schema{
						"error": {Type: "string", Description: "User-facing error message"},
					},
					Required: []string{"error"},
				},
			},
			Responses: map[string]*Response{
				"BadRequest":   errorResponse("Invalid request"),
				"Unauthorized": errorResponse("Authentication required"),
				"NotFound":     errorResponse("Resource not found"),
				"Conflict":     errorResponse("Resource already exists"),
				"Unavailable":  errorResponse("Upstream service unavailable, retry later"),
			},
			SecuritySchemes: map[string]*SecurityScheme{
				"session": {Type: "http", Scheme: "bearer"},
			},
		},
	}
}

// SetDescription sets the info description.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddServer appends a server URL. Empty URLs are ignored.
func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddSchema registers a reusable schema under name.
func (s *Spec) AddSchema(name string, schema *Schema) {
	s.Components.Schemas[name] = schema
}

// AddOperation binds op to method on path. Go 1.22 wildcard patterns such as
// "{key...}" are converted to OpenAPI path parameters.
func (s *Spec) AddOperation(method, path string, op *Operation) {
	if op == nil {
		return
	}

	path = strings.ReplaceAll(path, "...}", "}")
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	}
}

// Secured marks an operation as requiring the session security scheme.
func Secured(op *Operation) *Operation {
	op.Security = []map[string][]string{{"session": {}}}
	return op
}

// MarshalJSON renders the spec as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler that writes a pre-rendered spec.
func ServeSpec(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
