// Package ingestion turns an uploaded PDF into searchable chunks. It validates the
// upload, extracts and chunks the text, embeds every chunk, and only then writes the
// blob, the document row, and the chunk rows. A failure while writing rolls back
// whatever was already written.
package ingestion

import (
	"context"
	"fmt"

	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/google/uuid"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result describes a completed ingestion.
type Result struct {
	Document *documents.Document
	Chunks   int
}

// Summary is the user-facing confirmation for r.
func (r *Result) Summary() string {
	return fmt.Sprintf("File processed successfully! Generated %d embeddings.", r.Chunks)
}

// Extractor converts a PDF into sanitized text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, name string) (string, error)
}

// Embedder embeds a batch of texts, preserving order.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Documents is the document store used while persisting.
type Documents interface {
	Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, status documents.Status) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// Chunks is the chunk store used while persisting.
type Chunks interface {
	Insert(ctx context.Context, documentID uuid.UUID, content string, vector []float32) error
	Count(ctx context.Context, documentID uuid.UUID) (int, error)
}

// System runs the ingestion pipeline.
type System interface {
	Handler() *Handler
	Ingest(ctx context.Context, userID uuid.UUID, upload Upload) (*Result, error)
}
