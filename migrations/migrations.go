// Package migrations embeds the ordered SQL schema files.
package migrations

import "embed"

// Files holds every NNN_name.sql file. db.Migrate applies them in name order.
//
//go:embed *.sql
var Files embed.FS
