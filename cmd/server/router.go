package main

import (
	"net/http"

	"github.com/JaimeStill/studybuddy/internal/infrastructure"
)

// buildRouter mounts the health checks and metrics at the root and hands every other
// path to the API handler.
func buildRouter(infra *infrastructure.Infrastructure, apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	mux.Handle("GET /metrics", infra.Metrics.Handler())
	mux.Handle("/", apiHandler)

	return mux
}
