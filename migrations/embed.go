// Package migrations embeds the goose SQL migrations so the API and the CLI
// can apply them without shipping the directory alongside the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
