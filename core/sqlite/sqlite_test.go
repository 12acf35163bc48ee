package sqlite

import (
	"path/filepath"
	"testing"
)

func TestDriverName(t *testing.T) {
	if name := DriverName(); name != "sqlite" && name != "sqlite3" {
		t.Errorf("unexpected driver name %q", name)
	}
}

func TestOpen(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE markers (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO markers (name) VALUES (?)`, "wj"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM markers WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if name != "wj" {
		t.Errorf("name = %q, want wj", name)
	}
}

func TestOpenEnforcesForeignKeys(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE files (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE markers (
			file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`INSERT INTO files (id) VALUES (1)`,
		`INSERT INTO markers (file_id, name) VALUES (1, 'v')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q failed: %v", s, err)
		}
	}

	// Cascading delete only fires when foreign key enforcement is on.
	if _, err := db.Exec(`DELETE FROM files WHERE id = 1`); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM markers`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("%d marker rows survived the cascading delete, want 0", n)
	}

	// An orphan insert must be rejected.
	if _, err := db.Exec(`INSERT INTO markers (file_id, name) VALUES (99, 'p')`); err == nil {
		t.Error("insert referencing a missing file succeeded, want constraint error")
	}
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE markers (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO markers (name) VALUES (?)`, "readonly"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	db.Close()

	rodb, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly failed: %v", err)
	}
	defer rodb.Close()

	var name string
	if err := rodb.QueryRow(`SELECT name FROM markers WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if name != "readonly" {
		t.Errorf("name = %q, want readonly", name)
	}

	if _, err := rodb.Exec(`INSERT INTO markers (name) VALUES ('w')`); err == nil {
		t.Error("write through a read-only handle succeeded")
	}
}
