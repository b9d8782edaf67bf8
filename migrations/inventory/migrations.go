// Package inventory embeds the goose migrations for the inventory schema.
// They are applied by `shelfctl migrate` and by the worker on startup.
package inventory

import "embed"

//go:embed *.sql
var FS embed.FS
