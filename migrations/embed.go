// Package migrations holds the goose SQL migrations for the Postgres store.
// The server applies them at startup and the integration tests apply them
// through testutil.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
