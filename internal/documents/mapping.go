package documents

import (
	"net/url"

	"github.com/JaimeStill/studybuddy/pkg/query"
	"github.com/JaimeStill/studybuddy/pkg/repository"
)

var projection = query.NewProjectionMap("public", "documents", "d").
	Project("id", "id").
	Project("user_id", "user_id").
	Project("name", "name").
	Project("storage_key", "storage_key").
	Project("url", "url").
	Project("mime_type", "mime_type").
	Project("size_bytes", "size_bytes").
	Project("page_count", "page_count").
	Project("status", "status").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at")

const returning = `id, user_id, name, storage_key, url, mime_type, size_bytes, page_count, status, created_at, updated_at`

var defaultSort = query.SortField{Field: "created_at", Descending: true}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.StorageKey,
		&d.URL,
		&d.MIMEType,
		&d.SizeBytes,
		&d.PageCount,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Filters contains optional criteria for filtering document queries.
type Filters struct {
	Name   *string
	Status *Status
}

// FiltersFromQuery extracts document filters from URL query parameters.
// Unknown status values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if s := Status(values.Get("status")); s.Valid() {
		f.Status = &s
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("name", f.Name)
	if f.Status != nil {
		b.WhereEquals("status", string(*f.Status))
	}
	return b
}
