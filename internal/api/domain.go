package api

import (
	"fmt"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/chat"
	"github.com/JaimeStill/studybuddy/internal/chunking"
	"github.com/JaimeStill/studybuddy/internal/chunks"
	"github.com/JaimeStill/studybuddy/internal/config"
	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/internal/embeddings"
	"github.com/JaimeStill/studybuddy/internal/extraction"
	"github.com/JaimeStill/studybuddy/internal/ingestion"
	"github.com/JaimeStill/studybuddy/internal/retrieval"
	"github.com/JaimeStill/studybuddy/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users      users.System
	Auth       auth.System
	Documents  documents.System
	Chunks     chunks.System
	Embeddings embeddings.System
	Extraction extraction.System
	Ingestion  ingestion.System
	Retrieval  retrieval.System
	Chat       chat.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) (*Domain, error) {
	db := runtime.Database.Connection()

	usersSys := users.New(db, cfg.Auth.BcryptCost, runtime.Logger)
	authSys := auth.New(db, usersSys, cfg.Auth.SessionTTLDuration(), runtime.Logger)

	documentsSys := documents.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)
	chunksSys := chunks.New(db, runtime.Logger)

	embedder, err := embeddings.NewEmbedder(runtime.Models, 0)
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}
	embeddingsSys := embeddings.New(embedder, cfg.AI.Dimensions, runtime.Logger)

	extractionSys := extraction.New(
		extraction.NewGemini(runtime.Files, cfg.AI.ExtractionModel),
		extraction.Config{
			PollInterval: cfg.AI.PollIntervalDuration(),
			PollTimeout:  cfg.AI.PollTimeoutDuration(),
		},
		runtime.Logger,
	)

	ingestionSys := ingestion.New(
		ingestion.Config{
			MaxUploadSize: cfg.Storage.MaxUploadSizeBytes(),
			BatchSize:     cfg.Ingestion.BatchSize,
			Timeout:       cfg.Ingestion.TimeoutDuration(),
		},
		ingestion.Deps{
			Extractor: extractionSys,
			Chunker: chunking.New(
				chunking.WithSize(cfg.Ingestion.ChunkSize),
				chunking.WithOverlap(cfg.Ingestion.ChunkOverlap),
			),
			Embedder:  embeddingsSys,
			Blobs:     runtime.Storage,
			Documents: documentsSys,
			Chunks:    chunksSys,
			Metrics:   runtime.Metrics,
			Tracer:    runtime.Telemetry.Tracer(ingestion.TracerName),
			Logger:    runtime.Logger,
		},
	)

	retrievalSys := retrieval.New(
		embeddingsSys,
		chunksSys,
		retrieval.Config{TopK: cfg.Chat.TopK, Dimensions: cfg.AI.Dimensions},
		runtime.Metrics,
		runtime.Logger,
		retrieval.WithTracer(runtime.Telemetry.Tracer(retrieval.TracerName)),
	)

	chatSys := chat.New(
		chat.Config{
			AuthMaxTokens:  cfg.Chat.AuthMaxTokens,
			GuestMaxTokens: cfg.Chat.GuestMaxTokens,
			GuestRate:      cfg.Chat.GuestRate,
			GuestBurst:     cfg.Chat.GuestBurst,
		},
		chat.Deps{
			Model:     runtime.Models,
			Retriever: retrievalSys,
			Metrics:   runtime.Metrics,
			Logger:    runtime.Logger,
		},
	)

	return &Domain{
		Users:      usersSys,
		Auth:       authSys,
		Documents:  documentsSys,
		Chunks:     chunksSys,
		Embeddings: embeddingsSys,
		Extraction: extractionSys,
		Ingestion:  ingestionSys,
		Retrieval:  retrievalSys,
		Chat:       chatSys,
	}, nil
}
