package migrations

import "embed"

// Files holds the journal schema as forward-only SQL migrations.
//
//go:embed *.sql
var Files embed.FS
