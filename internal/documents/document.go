// Package documents manages the PDF documents a user has uploaded: their
// metadata rows, processing status, and the blobs that back them.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Status is the processing state of a document.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Document is an uploaded file owned by a single user.
// Only completed documents contribute chunks to retrieval.
type Document struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	MIMEType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	PageCount  *int      `json:"page_count,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCommand contains the data required to record a stored blob as a document.
// Status defaults to StatusProcessing.
type CreateCommand struct {
	UserID     uuid.UUID
	Name       string
	StorageKey string
	URL        string
	MIMEType   string
	SizeBytes  int64
	PageCount  *int
	Status     Status
}
