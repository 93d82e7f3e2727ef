// Package migrations embeds the SQL schema of the users and provider link tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
