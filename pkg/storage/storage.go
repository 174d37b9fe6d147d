// Package storage provides blob storage for uploaded documents.
// Keys are slash-separated relative paths; each backend maps them onto its own namespace.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
)

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is empty, absolute, or escapes the storage root.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// System defines blob storage operations.
type System interface {
	// Store saves data at key, overwriting existing content.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists and is readable.
	Validate(ctx context.Context, key string) (bool, error)

	// URL returns the public URL the blob is readable from.
	URL(key string) string

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// New creates the backend selected by cfg.Backend.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendGCS:
		return NewGCS(ctx, cfg, logger)
	case BackendFilesystem, "":
		return NewFilesystem(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// CleanKey normalizes key and rejects empty, absolute, or traversing keys.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}

	return cleaned, nil
}

func publicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(segments, "/")
}
