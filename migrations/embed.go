// Package migrations embeds the target schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
