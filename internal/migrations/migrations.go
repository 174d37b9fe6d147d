// Package migrations embeds the service schema.
package migrations

import "embed"

// Dir is the directory within FS that holds the migration files.
const Dir = "sql"

//go:embed sql/*.sql
var FS embed.FS
