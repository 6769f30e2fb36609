// Package migrations holds the versioned schema of the index database.
package migrations

import "embed"

// FS holds the NNN_name.up.sql and NNN_name.down.sql pairs, applied in
// version order by the store when it opens.
//
//go:embed *.sql
var FS embed.FS
