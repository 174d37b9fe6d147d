package query

import "strings"

// SortField names a view field and its direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression such as "name,-created_at".
// A leading "-" marks a field as descending. Empty input returns nil.
func ParseSortFields(s string) []SortField {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if name == "" {
			continue
		}

		fields = append(fields, SortField{Field: name, Descending: desc})
	}

	return fields
}
