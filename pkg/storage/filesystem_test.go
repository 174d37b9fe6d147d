package storage_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
	"github.com/JaimeStill/studybuddy/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFilesystem(t *testing.T) (storage.System, string) {
	t.Helper()
	base := filepath.Join(t.TempDir(), "blobs")

	store, err := storage.NewFilesystem(&storage.Config{BasePath: base, PublicURL: "/blobs"}, testLogger())
	if err != nil {
		t.Fatalf("NewFilesystem() failed: %v", err)
	}
	if err := store.Start(lifecycle.New()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return store, base
}

func TestFilesystem_RoundTrip(t *testing.T) {
	store, base := newFilesystem(t)
	ctx := context.Background()
	key := "user-1/notes-0a1b2c3d.pdf"

	if err := store.Store(ctx, key, []byte("pdf bytes")); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	ok, err := store.Validate(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Validate() = %v, %v; want true", ok, err)
	}

	data, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("Retrieve() failed: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("Retrieve() = %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Retrieve(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Retrieve() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(base, "user-1")); !os.IsNotExist(err) {
		t.Error("empty user directory not pruned")
	}
}

func TestFilesystem_Overwrite(t *testing.T) {
	store, _ := newFilesystem(t)
	ctx := context.Background()

	if err := store.Store(ctx, "u/a.txt", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := store.Store(ctx, "u/a.txt", []byte("two")); err != nil {
		t.Fatal(err)
	}

	data, err := store.Retrieve(ctx, "u/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("Retrieve() = %q, want two", data)
	}
}

func TestFilesystem_MissingKey(t *testing.T) {
	store, _ := newFilesystem(t)
	ctx := context.Background()

	ok, err := store.Validate(ctx, "u/missing.txt")
	if err != nil || ok {
		t.Errorf("Validate() = %v, %v; want false, nil", ok, err)
	}
	if err := store.Delete(ctx, "u/missing.txt"); err != nil {
		t.Errorf("Delete() missing key error = %v", err)
	}
}

func TestFilesystem_URL(t *testing.T) {
	store, _ := newFilesystem(t)

	if got := store.URL("user-1/my notes.pdf"); got != "/blobs/user-1/my%20notes.pdf" {
		t.Errorf("URL() = %q", got)
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "u/a.pdf", want: "u/a.pdf"},
		{key: "u/./a.pdf", want: "u/a.pdf"},
		{key: "u/x/../a.pdf", want: "u/a.pdf"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "u/../../secret", wantErr: true},
		{key: "u\\a.pdf", wantErr: true},
		{key: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := storage.CleanKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, storage.ErrInvalidKey) {
					t.Errorf("CleanKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CleanKey(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("CleanKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
