package db

import (
	"database/sql"
	"fmt"
)

// schema is the catalog database schema. The catalog is static: it is written
// by import and read once at start-up.
const schema = `
CREATE TABLE IF NOT EXISTS catalog_items (
    id            TEXT PRIMARY KEY,
    position      INTEGER NOT NULL,
    name          TEXT NOT NULL CHECK (name <> ''),
    unit          TEXT NOT NULL DEFAULT '',
    base_quantity INTEGER NOT NULL CHECK (base_quantity >= 0),
    morning_delta INTEGER NOT NULL DEFAULT 0,
    night_delta   INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_catalog_items_position
    ON catalog_items(position);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
