// Package migrations embeds the goose SQL migrations for the users, donors
// and blood_requests tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
