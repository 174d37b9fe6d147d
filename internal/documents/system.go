package documents

import (
	"context"

	"github.com/JaimeStill/studybuddy/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the document management operations.
// Reads and deletes are scoped to the owning user; a document owned by someone
// else is reported as ErrNotFound.
type System interface {
	Handler() *Handler
	List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, userID, id uuid.UUID) (*Document, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	// Remove deletes the row without touching storage. Chunks cascade.
	Remove(ctx context.Context, id uuid.UUID) error
}
