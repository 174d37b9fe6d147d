package documents_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/pkg/pagination"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSystem struct {
	docs    map[uuid.UUID]documents.Document
	deleted []uuid.UUID
}

func (f *fakeSystem) Handler() *documents.Handler {
	return documents.NewHandler(f, testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (f *fakeSystem) List(ctx context.Context, userID uuid.UUID, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	var out []documents.Document
	for _, d := range f.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	result := pagination.NewPageResult(out, len(out), page.Page, page.PageSize)
	return &result, nil
}

func (f *fakeSystem) Find(ctx context.Context, userID, id uuid.UUID) (*documents.Document, error) {
	d, ok := f.docs[id]
	if !ok || d.UserID != userID {
		return nil, documents.ErrNotFound
	}
	return &d, nil
}

func (f *fakeSystem) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := f.Find(ctx, userID, id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

func (f *fakeSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return nil, nil
}

func (f *fakeSystem) SetStatus(ctx context.Context, id uuid.UUID, status documents.Status) error {
	return nil
}

func (f *fakeSystem) Remove(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fixture struct {
	sys   *fakeSystem
	mux   *http.ServeMux
	owner uuid.UUID
	other uuid.UUID
	docID uuid.UUID
}

func newFixture() *fixture {
	owner, other, docID := uuid.New(), uuid.New(), uuid.New()
	sys := &fakeSystem{
		docs: map[uuid.UUID]documents.Document{
			docID: {ID: docID, UserID: owner, Name: "notes.pdf", Status: documents.StatusCompleted},
		},
	}

	mux := http.NewServeMux()
	for _, r := range sys.Handler().Routes().Routes {
		mux.HandleFunc(r.Method+" /api/documents"+r.Pattern, r.Handler)
	}

	return &fixture{sys: sys, mux: mux, owner: owner, other: other, docID: docID}
}

func (f *fixture) do(method, path string, user *uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if user != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{UserID: *user}))
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RequiresSession(t *testing.T) {
	f := newFixture()

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/documents"},
		{http.MethodGet, "/api/documents/" + f.docID.String()},
		{http.MethodDelete, "/api/documents/" + f.docID.String()},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			if rec := f.do(p.method, p.path, nil); rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/documents", &f.owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[documents.Document]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Total)
	}

	rec = f.do(http.MethodGet, "/api/documents", &f.other)
	json.NewDecoder(rec.Body).Decode(&result)
	if result.Total != 0 {
		t.Errorf("other user Total = %d, want 0", result.Total)
	}
}

func TestHandler_Find(t *testing.T) {
	f := newFixture()
	path := "/api/documents/" + f.docID.String()

	tests := []struct {
		name string
		path string
		user uuid.UUID
		want int
	}{
		{"owner", path, f.owner, http.StatusOK},
		{"other user", path, f.other, http.StatusNotFound},
		{"invalid id", "/api/documents/not-a-uuid", f.owner, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := f.do(http.MethodGet, tt.path, &tt.user); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	f := newFixture()
	path := "/api/documents/" + f.docID.String()

	if rec := f.do(http.MethodDelete, path, &f.other); rec.Code != http.StatusNotFound {
		t.Errorf("other user status = %d, want 404", rec.Code)
	}
	if len(f.sys.deleted) != 0 {
		t.Fatal("document deleted by non-owner")
	}

	if rec := f.do(http.MethodDelete, path, &f.owner); rec.Code != http.StatusNoContent {
		t.Errorf("owner status = %d, want 204", rec.Code)
	}
	if len(f.sys.deleted) != 1 {
		t.Errorf("deleted = %v, want one", f.sys.deleted)
	}
}
