// Package migrations embeds the goose SQL migrations for the notification
// store and the preference store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
