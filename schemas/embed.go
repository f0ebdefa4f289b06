// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains all SQL migration files, named <version>_<description>.sql.
//
//go:embed migrations/*.sql
var Migrations embed.FS
