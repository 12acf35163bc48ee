// Package index maintains a SQLite database of parsed sources: one
// row per file with its book ID and diagnostic count, plus per-file
// marker frequencies. It backs the CLI's index command.
package index

import (
	"database/sql"
	"strings"

	"github.com/FocuswithJustin/sfmkit/core/errors"
	"github.com/FocuswithJustin/sfmkit/core/sfm"
	"github.com/FocuswithJustin/sfmkit/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	id          INTEGER PRIMARY KEY,
	path        TEXT NOT NULL UNIQUE,
	book        TEXT,
	nodes       INTEGER NOT NULL,
	diagnostics INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS markers (
	file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	name    TEXT NOT NULL,
	count   INTEGER NOT NULL,
	PRIMARY KEY (file_id, name)
);`

// Index is an open marker index database.
type Index struct {
	db *sql.DB
}

// Open opens or creates an index database at path.
func Open(path string) (*Index, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating index schema")
	}
	return &Index{db: db}, nil
}

// OpenReadOnly opens an existing index database for queries only.
func OpenReadOnly(path string) (*Index, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

// FileInfo is one indexed source file.
type FileInfo struct {
	Path        string
	Book        string
	Nodes       int
	Diagnostics int
}

// AddFile records one parsed source, replacing any previous entry for
// the same path.
func (i *Index) AddFile(path string, doc sfm.Document, rep *sfm.Report) error {
	tx, err := i.db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting index transaction")
	}
	defer tx.Rollback()

	// Deleting marker rows first keeps the replace correct even on a
	// connection without foreign key enforcement, where the cascade
	// from files would not fire.
	if _, err := tx.Exec(
		`DELETE FROM markers WHERE file_id IN (SELECT id FROM files WHERE path = ?)`, path,
	); err != nil {
		return errors.Wrap(err, "clearing previous marker counts")
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return errors.Wrap(err, "clearing previous entry")
	}

	flat := doc.Flatten()
	res, err := tx.Exec(
		`INSERT INTO files (path, book, nodes, diagnostics) VALUES (?, ?, ?, ?)`,
		path, bookID(doc), len(flat), len(rep.Diagnostics),
	)
	if err != nil {
		return errors.Wrap(err, "inserting file entry")
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "reading file row id")
	}

	counts := map[string]int{}
	for _, n := range flat {
		if e, ok := n.(*sfm.Element); ok {
			counts[e.Name]++
		}
	}
	for name, count := range counts {
		if _, err := tx.Exec(
			`INSERT INTO markers (file_id, name, count) VALUES (?, ?, ?)`,
			fileID, name, count,
		); err != nil {
			return errors.Wrap(err, "inserting marker count")
		}
	}

	return tx.Commit()
}

// Files returns the indexed files ordered by path.
func (i *Index) Files() ([]FileInfo, error) {
	rows, err := i.db.Query(
		`SELECT path, book, nodes, diagnostics FROM files ORDER BY path`)
	if err != nil {
		return nil, errors.Wrap(err, "querying files")
	}
	defer rows.Close()

	var out []FileInfo
	for rows.Next() {
		var f FileInfo
		if err := rows.Scan(&f.Path, &f.Book, &f.Nodes, &f.Diagnostics); err != nil {
			return nil, errors.Wrap(err, "scanning file row")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// MarkerCounts returns the total occurrence count per marker name
// across all indexed files, ordered by descending count.
func (i *Index) MarkerCounts() (map[string]int, error) {
	rows, err := i.db.Query(
		`SELECT name, SUM(count) FROM markers GROUP BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying marker counts")
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, errors.Wrap(err, "scanning marker row")
		}
		out[name] = count
	}
	return out, rows.Err()
}

// MarkerCount returns the total count for one marker name.
func (i *Index) MarkerCount(name string) (int, error) {
	var count int
	err := i.db.QueryRow(
		`SELECT COALESCE(SUM(count), 0) FROM markers WHERE name = ?`, name,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "querying marker count")
	}
	return count, nil
}

// bookID returns the book code of the first \id element.
func bookID(doc sfm.Document) string {
	for _, n := range doc {
		if e, ok := n.(*sfm.Element); ok && e.Name == "id" {
			for _, c := range e.Children {
				if t, ok := c.(*sfm.Text); ok {
					fields := strings.Fields(t.Content)
					if len(fields) > 0 {
						return fields[0]
					}
				}
			}
			return ""
		}
	}
	return ""
}
