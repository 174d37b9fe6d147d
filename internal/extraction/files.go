package extraction

import (
	"context"
	"errors"
)

// ErrRejected reports that the remote service refused the document itself,
// as opposed to failing transiently.
var ErrRejected = errors.New("extraction: document rejected")

// FileState is the processing state of an uploaded file.
type FileState int

const (
	StateUnspecified FileState = iota
	StateProcessing
	StateActive
	StateFailed
)

func (s FileState) String() string {
	switch s {
	case StateProcessing:
		return "processing"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return "unspecified"
	}
}

// RemoteFile is a file held by the document-understanding service.
type RemoteFile struct {
	Name     string
	URI      string
	MIMEType string
	State    FileState
}

// FileService is the subset of a hosted file API the extractor depends on.
type FileService interface {
	Upload(ctx context.Context, path, displayName, mimeType string) (*RemoteFile, error)
	Get(ctx context.Context, name string) (*RemoteFile, error)
	Delete(ctx context.Context, name string) error
	Generate(ctx context.Context, file *RemoteFile, prompt string) (string, error)
}
