// Package migrations contains the embedded SQL migrations for the grove store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
