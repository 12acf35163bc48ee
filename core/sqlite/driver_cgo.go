//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqlite

import (
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// dsn builds a mattn/go-sqlite3 source name with foreign key
// enforcement enabled.
func dsn(path string, readOnly bool) string {
	s := "file:" + path + "?_foreign_keys=on"
	if readOnly {
		s += "&mode=ro"
	}
	return s
}
