// Package migrations embeds the goose SQL migrations so the binary can
// bring a fresh database up to date without shipping the files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
