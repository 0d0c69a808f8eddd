// Package migrations embeds the Postgres-dialect schema files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
