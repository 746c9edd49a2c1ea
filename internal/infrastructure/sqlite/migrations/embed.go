package migrations

import "embed"

// FS contains embedded SQLite migrations for translation storage.
//
//go:embed *.sql
var FS embed.FS
