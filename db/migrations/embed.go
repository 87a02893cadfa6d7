package migrations

import "embed"

// FS holds the SQL migrations applied by the migrate command.
//
//go:embed *.sql
var FS embed.FS
