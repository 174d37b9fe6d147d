package routes

import (
	"net/http"

	"github.com/JaimeStill/studybuddy/pkg/openapi"
)

// Route represents an HTTP route with method, pattern, handler, and its OpenAPI operation.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
