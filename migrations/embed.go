package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres exposes the Postgres migration set ordered lexicographically.
func Postgres() fs.FS {
	sub, _ := fs.Sub(files, "postgres")
	return sub
}

// SQLite exposes the SQLite migration set ordered lexicographically.
func SQLite() fs.FS {
	sub, _ := fs.Sub(files, "sqlite")
	return sub
}
