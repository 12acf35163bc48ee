// Package sqlite selects the SQLite driver at build time: the pure Go
// modernc.org/sqlite by default, mattn/go-sqlite3 under the cgo_sqlite
// build tag. Open always enables foreign key enforcement, which SQLite
// otherwise leaves off per connection.
package sqlite

import (
	"database/sql"
)

// DriverName returns the registered name of the selected driver.
func DriverName() string {
	return driverName
}

// Open opens the database at path read-write, creating it if absent.
func Open(path string) (*sql.DB, error) {
	return sql.Open(driverName, dsn(path, false))
}

// OpenReadOnly opens an existing database without write access.
func OpenReadOnly(path string) (*sql.DB, error) {
	return sql.Open(driverName, dsn(path, true))
}
