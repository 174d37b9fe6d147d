package documents_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/pkg/query"
)

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantName   string
		wantStatus documents.Status
	}{
		{"empty query", "", "", ""},
		{"name filter", "name=biology", "biology", ""},
		{"status filter", "status=completed", "", documents.StatusCompleted},
		{"unknown status ignored", "status=archived", "", ""},
		{"both", "name=notes&status=failed&page=2", "notes", documents.StatusFailed},
		{"empty name", "name=", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			f := documents.FiltersFromQuery(values)

			if tt.wantName == "" {
				if f.Name != nil {
					t.Errorf("Name = %q, want nil", *f.Name)
				}
			} else if f.Name == nil || *f.Name != tt.wantName {
				t.Errorf("Name = %v, want %q", f.Name, tt.wantName)
			}

			if tt.wantStatus == "" {
				if f.Status != nil {
					t.Errorf("Status = %q, want nil", *f.Status)
				}
			} else if f.Status == nil || *f.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %q", f.Status, tt.wantStatus)
			}
		})
	}
}

func TestFiltersApply(t *testing.T) {
	proj := query.NewProjectionMap("public", "documents", "d").
		Project("name", "name").
		Project("status", "status")

	name := "chem"
	status := documents.StatusCompleted
	f := documents.Filters{Name: &name, Status: &status}

	sql, args := f.Apply(query.NewBuilder(proj)).BuildCount()

	if !strings.Contains(sql, "d.name ILIKE $1") {
		t.Errorf("sql = %q, want name ILIKE", sql)
	}
	if !strings.Contains(sql, "d.status = $2") {
		t.Errorf("sql = %q, want status equality", sql)
	}
	if len(args) != 2 || args[0] != "%chem%" || args[1] != "completed" {
		t.Errorf("args = %v, want [%%chem%% completed]", args)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []documents.Status{
		documents.StatusPending,
		documents.StatusProcessing,
		documents.StatusCompleted,
		documents.StatusFailed,
	} {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false", s)
		}
	}

	if documents.Status("COMPLETED").Valid() {
		t.Error("uppercase status reported valid")
	}
}
