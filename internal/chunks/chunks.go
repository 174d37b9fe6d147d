// Package chunks stores embedded text windows and runs user-scoped similarity search over them.
package chunks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/JaimeStill/studybuddy/pkg/repository"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Match is a chunk returned by Search. Similarity is 1 minus the cosine distance.
type Match struct {
	ID           uuid.UUID `json:"id"`
	DocumentID   uuid.UUID `json:"document_id"`
	DocumentName string    `json:"document_name"`
	Content      string    `json:"content"`
	Similarity   float64   `json:"similarity"`
}

// System persists chunks and searches them.
type System interface {
	Insert(ctx context.Context, documentID uuid.UUID, content string, vector []float32) error
	// Search returns the k chunks nearest to vector among the completed documents owned by userID.
	Search(ctx context.Context, userID uuid.UUID, vector []float32, k int) ([]Match, error)
	Count(ctx context.Context, documentID uuid.UUID) (int, error)
}

const insertQuery = `INSERT INTO chunks(document_id, content, embedding) VALUES($1, $2, $3)`

const searchQuery = `SELECT c.id, c.document_id, d.name, c.content, 1 - (c.embedding <=> $2) AS similarity
	FROM chunks c
	JOIN documents d ON d.id = c.document_id
	WHERE d.user_id = $1 AND d.status = 'completed'
	ORDER BY c.embedding <=> $2
	LIMIT $3`

// scanQuery configures the HNSW scan for the current transaction. Iterative scans
// (pgvector 0.8+) keep walking the graph until LIMIT rows pass the owner filter;
// older versions ignore the placeholder and rely on the widened ef_search.
const scanQuery = `SELECT set_config('hnsw.iterative_scan', 'strict_order', true), set_config('hnsw.ef_search', $1, true)`

const (
	minEfSearch = 40
	maxEfSearch = 1000
)

const countQuery = `SELECT COUNT(*) FROM chunks WHERE document_id = $1`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a chunk repository on db.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "chunks"),
	}
}

func (r *repo) Insert(ctx context.Context, documentID uuid.UUID, content string, vector []float32) error {
	if _, err := r.db.ExecContext(ctx, insertQuery, documentID, content, pgvector.NewVector(vector)); err != nil {
		return fmt.Errorf("insert chunk: %w", err)
	}
	return nil
}

func (r *repo) Search(ctx context.Context, userID uuid.UUID, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}

	args := []any{userID, pgvector.NewVector(vector), k}
	matches, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Match, error) {
		if _, err := tx.ExecContext(ctx, scanQuery, strconv.Itoa(efSearch(k))); err != nil {
			return nil, fmt.Errorf("configure index scan: %w", err)
		}
		return repository.QueryMany(ctx, tx, searchQuery, args, scanMatch)
	})
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	r.logger.Debug("chunks searched", "user_id", userID, "k", k, "matches", len(matches))
	return matches, nil
}

func (r *repo) Count(ctx context.Context, documentID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countQuery, documentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// efSearch sizes the HNSW candidate list to k, within the bounds pgvector accepts.
func efSearch(k int) int {
	return min(max(k*10, minEfSearch), maxEfSearch)
}

func scanMatch(s repository.Scanner) (Match, error) {
	var m Match
	err := s.Scan(
		&m.ID,
		&m.DocumentID,
		&m.DocumentName,
		&m.Content,
		&m.Similarity,
	)
	return m, err
}
