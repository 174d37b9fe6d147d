// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, tracing, database, storage, metrics,
// and the hosted model clients) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/studybuddy/internal/config"
	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/JaimeStill/studybuddy/internal/migrations"
	"github.com/JaimeStill/studybuddy/pkg/database"
	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
	"github.com/JaimeStill/studybuddy/pkg/logging"
	"github.com/JaimeStill/studybuddy/pkg/storage"
	"github.com/JaimeStill/studybuddy/pkg/telemetry"
	"github.com/google/generative-ai-go/genai"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/option"
)

// Infrastructure holds the core systems required by all domain modules.
// Models serves chat and embeddings; Files serves the document file API.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Telemetry telemetry.System
	Database  database.System
	Storage   storage.System
	Metrics   *metrics.Metrics
	Models    *googleai.GoogleAI
	Files     *genai.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	tel, err := telemetry.New(ctx, &cfg.Tracing, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init failed: %w", err)
	}

	db, err := database.New(
		&cfg.Database,
		logger,
		database.WithMigrations(migrations.FS, migrations.Dir),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	models, err := googleai.New(
		ctx,
		googleai.WithAPIKey(cfg.AI.APIKey),
		googleai.WithDefaultModel(cfg.AI.ChatModel),
		googleai.WithDefaultEmbeddingModel(cfg.AI.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("model client init failed: %w", err)
	}

	files, err := genai.NewClient(ctx, option.WithAPIKey(cfg.AI.APIKey))
	if err != nil {
		models.Close()
		return nil, fmt.Errorf("file client init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Telemetry: tel,
		Database:  db,
		Storage:   store,
		Metrics:   metrics.New(),
		Models:    models,
		Files:     files,
	}, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Telemetry.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("telemetry start failed: %w", err)
	}
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.Files.Close(); err != nil {
			i.Logger.Error("file client close failed", "error", err)
		}
		if err := i.Models.Close(); err != nil {
			i.Logger.Error("model client close failed", "error", err)
		}
	})

	return nil
}
