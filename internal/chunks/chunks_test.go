package chunks_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JaimeStill/studybuddy/internal/chunks"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newMock(t *testing.T) (chunks.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return chunks.New(db, testLogger()), mock
}

func TestSearchQuery_ScopesToOwner(t *testing.T) {
	predicates := []string{
		"d.user_id = $1",
		"d.status = 'completed'",
		"JOIN documents d ON d.id = c.document_id",
		"ORDER BY c.embedding <=> $2",
		"LIMIT $3",
	}

	for _, p := range predicates {
		t.Run(p, func(t *testing.T) {
			if !strings.Contains(chunks.SearchQuery, p) {
				t.Errorf("search query missing %q", p)
			}
		})
	}
}

func TestSearch_ConfiguresScanInTransaction(t *testing.T) {
	repo, mock := newMock(t)
	user := uuid.New()
	id, doc := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(chunks.ScanQuery).
		WithArgs("50").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(chunks.SearchQuery).
		WithArgs(user, sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "name", "content", "similarity"}).
			AddRow(id.String(), doc.String(), "biology.pdf", "chlorophyll absorbs light", 0.92))
	mock.ExpectCommit()

	matches, err := repo.Search(context.Background(), user, []float32{0.1, 0.2, 0.3}, 5)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	m := matches[0]
	if m.ID != id || m.DocumentID != doc || m.DocumentName != "biology.pdf" || m.Similarity != 0.92 {
		t.Errorf("match = %+v", m)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSearch_ScanSettingFailureRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(chunks.ScanQuery).
		WithArgs("40").
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	if _, err := repo.Search(context.Background(), uuid.New(), []float32{1}, 2); err == nil {
		t.Fatal("Search() succeeded, want error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSearch_NonPositiveK(t *testing.T) {
	repo, mock := newMock(t)

	matches, err := repo.Search(context.Background(), uuid.New(), []float32{1}, 0)
	if err != nil || len(matches) != 0 {
		t.Errorf("Search(k=0) = %v, %v; want empty", matches, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEfSearch(t *testing.T) {
	tests := []struct {
		k    int
		want int
	}{
		{1, 40},
		{4, 40},
		{5, 50},
		{20, 200},
		{100, 1000},
		{500, 1000},
	}

	for _, tt := range tests {
		if got := chunks.EfSearch(tt.k); got != tt.want {
			t.Errorf("EfSearch(%d) = %d, want %d", tt.k, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	repo, mock := newMock(t)
	doc := uuid.New()

	mock.ExpectQuery(`SELECT COUNT(*) FROM chunks WHERE document_id = $1`).
		WithArgs(doc).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background(), doc)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 12 {
		t.Errorf("Count() = %d, want 12", n)
	}
}
