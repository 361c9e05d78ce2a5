// Package renewer holds assets embedded into the binary.
package renewer

import "embed"

// Migrations contains the goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
