package db

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Open opens the catalog database for writing (import and first-run seeding)
// and configures pragmas.
func Open(path string) (*sql.DB, error) {
	// Rollback journal rather than WAL: read-only opens must not need to
	// create -wal/-shm files next to the database.
	return open(path, []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA busy_timeout=5000",
	})
}

// OpenReadOnly opens an existing catalog database without write access. The
// server only ever reads the catalog, once, at start-up.
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	return open(dsn, []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA query_only=ON",
	})
}

func open(dsn string, pragmas []string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}
