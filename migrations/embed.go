// Package migrations embeds the SQL schema.
package migrations

import "embed"

// FS holds the *.up.sql migrations in apply order.
//
//go:embed *.sql
var FS embed.FS
