// Package migrations embeds the schema and seed catalog SQL.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
