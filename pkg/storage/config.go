package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"
)

// Backend names a blob storage implementation.
type Backend string

// Supported storage backends.
const (
	BackendFilesystem Backend = "filesystem"
	BackendGCS        Backend = "gcs"
)

// Config contains blob storage configuration.
type Config struct {
	Backend Backend `toml:"backend"`
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath string `toml:"base_path"`
	// Bucket is the Cloud Storage bucket used by the gcs backend.
	Bucket string `toml:"bucket"`
	// PublicURL is the base URL blobs are readable from once written.
	// Defaults to "/blobs" for filesystem and the public GCS endpoint for gcs.
	PublicURL        string `toml:"public_url"`
	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	Backend       string
	BasePath      string
	Bucket        string
	PublicURL     string
	MaxUploadSize string
}

// MaxUploadSizeBytes returns the parsed upload ceiling. Valid after Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MiB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = Backend(v)
		}
	}
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.Bucket != "" {
		if v := os.Getenv(env.Bucket); v != "" {
			c.Bucket = v
		}
	}
	if env.PublicURL != "" {
		if v := os.Getenv(env.PublicURL); v != "" {
			c.PublicURL = v
		}
	}
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required")
		}
		if c.PublicURL == "" {
			c.PublicURL = "/blobs"
		}
	case BackendGCS:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required for gcs backend")
		}
		if c.PublicURL == "" {
			c.PublicURL = "https://storage.googleapis.com/" + c.Bucket
		}
	default:
		return fmt.Errorf("invalid backend: %s (must be filesystem or gcs)", c.Backend)
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")

	size, err := units.RAMInBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
