package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/studybuddy/pkg/pagination"
	"github.com/JaimeStill/studybuddy/pkg/query"
	"github.com/JaimeStill/studybuddy/pkg/repository"
	"github.com/JaimeStill/studybuddy/pkg/storage"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository with database and blob storage integration.
func New(db *sql.DB, storage storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    storage,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("user_id", userID).
		WhereSearch(page.Search, "name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, userID, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("user_id", userID).
		BuildSingle("id", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &doc, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	status := cmd.Status
	if status == "" {
		status = StatusProcessing
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	q := `INSERT INTO documents(id, user_id, name, storage_key, url, mime_type, size_bytes, page_count, status)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + returning

	args := []any{
		uuid.New(), cmd.UserID, cmd.Name, cmd.StorageKey, cmd.URL,
		cmd.MIMEType, cmd.SizeBytes, cmd.PageCount, string(status),
	}

	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", doc.ID, "user_id", doc.UserID, "status", doc.Status)
	return &doc, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	q := `UPDATE documents SET status = $1, updated_at = NOW() WHERE id = $2`
	if err := repository.ExecExpectOne(ctx, r.db, q, string(status), id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("document status changed", "id", id, "status", status)
	return nil
}

func (r *repo) Remove(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	doc, err := r.Find(ctx, userID, id)
	if err != nil {
		return err
	}

	q := `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id, userID)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Error("storage cleanup failed", "storage_key", doc.StorageKey, "error", err)
	}

	r.logger.Info("document deleted", "id", id, "user_id", userID)
	return nil
}
