// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/JaimeStill/studybuddy/pkg/database"
	"github.com/JaimeStill/studybuddy/pkg/logging"
	"github.com/JaimeStill/studybuddy/pkg/storage"
	"github.com/JaimeStill/studybuddy/pkg/telemetry"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvServiceEnv specifies the environment name for configuration overlays.
	EnvServiceEnv = "SERVICE_ENV"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
	SSLMode:         "DATABASE_SSL_MODE",
	AutoMigrate:     "DATABASE_AUTO_MIGRATE",
}

var storageEnv = &storage.Env{
	Backend:       "STORAGE_BACKEND",
	BasePath:      "STORAGE_BASE_PATH",
	Bucket:        "STORAGE_BUCKET",
	PublicURL:     "STORAGE_PUBLIC_URL",
	MaxUploadSize: "STORAGE_MAX_UPLOAD_SIZE",
}

var tracingEnv = &telemetry.Env{
	Exporter:    "TRACING_EXPORTER",
	Endpoint:    "TRACING_ENDPOINT",
	Protocol:    "TRACING_PROTOCOL",
	Insecure:    "TRACING_INSECURE",
	SampleRate:  "TRACING_SAMPLE_RATE",
	ServiceName: "TRACING_SERVICE_NAME",
}

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
}

// Config represents the root service configuration.
type Config struct {
	Server    ServerConfig     `toml:"server"`
	Database  database.Config  `toml:"database"`
	Storage   storage.Config   `toml:"storage"`
	Logging   logging.Config   `toml:"logging"`
	Tracing   telemetry.Config `toml:"tracing"`
	API       APIConfig        `toml:"api"`
	AI        AIConfig         `toml:"ai"`
	Ingestion IngestionConfig  `toml:"ingestion"`
	Chat      ChatConfig       `toml:"chat"`
	Auth      AuthConfig       `toml:"auth"`
}

// Load reads the base configuration file, applies any environment-specific overlay,
// and finalizes the result. A missing base file leaves every value to defaults and
// environment overrides.
func Load() (*Config, error) {
	cfg, err := load(BaseConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for tools that only need a database connection.
func LoadDatabase() (*database.Config, error) {
	cfg, err := load(BaseConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Database.Merge(&overlay.Database)
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &cfg.Database, nil
}

// Finalize applies defaults, loads environment overrides, and validates every section.
func (c *Config) Finalize() error {
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Tracing.Finalize(tracingEnv); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.AI.Finalize(); err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	if err := c.Ingestion.Finalize(); err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}
	if err := c.Chat.Finalize(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := c.Auth.Finalize(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Logging.Merge(&overlay.Logging)
	c.Tracing.Merge(&overlay.Tracing)
	c.API.Merge(&overlay.API)
	c.AI.Merge(&overlay.AI)
	c.Ingestion.Merge(&overlay.Ingestion)
	c.Chat.Merge(&overlay.Chat)
	c.Auth.Merge(&overlay.Auth)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		overlayPath := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(overlayPath); err == nil {
			return overlayPath
		}
	}
	return ""
}
