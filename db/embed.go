// Package db embeds the goose SQL migrations so the binary can migrate
// without the source tree on disk.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"
