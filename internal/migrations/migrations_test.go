package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/JaimeStill/studybuddy/internal/migrations"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}

	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestFS_ChunkSchema(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, migrations.Dir+"/000001_initial_schema.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	sql := string(data)

	for _, want := range []string{
		"embedding vector(768) NOT NULL",
		"REFERENCES documents(id) ON DELETE CASCADE",
		"USING hnsw (embedding vector_cosine_ops)",
		"CHECK (status IN ('pending', 'processing', 'completed', 'failed'))",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
