//go:build !cgo_sqlite

package sqlite

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// dsn builds a modernc.org/sqlite source name with foreign key
// enforcement enabled.
func dsn(path string, readOnly bool) string {
	s := "file:" + path + "?_pragma=foreign_keys(1)"
	if readOnly {
		s += "&mode=ro"
	}
	return s
}
