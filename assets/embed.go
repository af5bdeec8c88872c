// Package assets embeds the default phrase library and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed phrases.yaml sql/*.sql
var FS embed.FS

// PhraseSets returns the raw YAML of the built-in vocabulary library.
func PhraseSets() ([]byte, error) {
	return FS.ReadFile("phrases.yaml")
}

// Migrations returns the migration scripts rooted at the sql directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
