// Package embeddings turns text into fixed-length vectors for similarity search.
package embeddings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/studybuddy/internal/faults"
	"github.com/tmc/langchaingo/embeddings"
)

// DefaultBatchSize is the number of texts sent per upstream request.
const DefaultBatchSize = 100

const (
	msgDocuments = "Unable to process the document for AI search. This may be due to a temporary service issue. Please try again in a few moments. If the problem persists, contact support."
	msgQuery     = "Unable to search your documents right now. Please try again in a few moments."
)

// System produces embeddings with a fixed dimensionality.
type System interface {
	// EmbedDocuments returns one vector per text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type client struct {
	embedder   embeddings.Embedder
	dimensions int
	logger     *slog.Logger
}

// New wraps embedder and enforces that every vector has dimensions components.
func New(embedder embeddings.Embedder, dimensions int, logger *slog.Logger) System {
	return &client{
		embedder:   embedder,
		dimensions: dimensions,
		logger:     logger.With("system", "embeddings"),
	}
}

// NewEmbedder builds a batching langchaingo embedder over an embedding client such as googleai.
func NewEmbedder(c embeddings.EmbedderClient, batchSize int) (embeddings.Embedder, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return embeddings.NewEmbedder(c,
		embeddings.WithBatchSize(batchSize),
		embeddings.WithStripNewLines(false),
	)
}

func (c *client) Dimensions() int {
	return c.dimensions
}

func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, faults.New(faults.ErrEmbeddingService, msgDocuments, err)
	}

	if len(vectors) != len(texts) {
		err := fmt.Errorf("embedding count %d does not match input count %d", len(vectors), len(texts))
		return nil, faults.New(faults.ErrEmbeddingService, msgDocuments, err)
	}

	for i, v := range vectors {
		if err := c.check(v); err != nil {
			return nil, faults.New(faults.ErrEmbeddingService, msgDocuments, fmt.Errorf("vector %d: %w", i, err))
		}
	}

	c.logger.Debug("documents embedded", "count", len(vectors))
	return vectors, nil
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, faults.New(faults.ErrEmbeddingService, msgQuery, err)
	}

	if err := c.check(vector); err != nil {
		return nil, faults.New(faults.ErrEmbeddingService, msgQuery, err)
	}
	return vector, nil
}

func (c *client) check(v []float32) error {
	if len(v) != c.dimensions {
		return fmt.Errorf("dimension %d, want %d", len(v), c.dimensions)
	}
	return nil
}
