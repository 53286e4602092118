package db

import (
	"path/filepath"
	"testing"
)

func TestOpenAndReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.sqlite3")

	rw, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := EnsureSchema(rw); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := rw.Exec(`INSERT INTO catalog_items (id, position, name, base_quantity) VALUES ('a', 0, 'A', 1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rw.Close()

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer ro.Close()

	var n int
	if err := ro.QueryRow(`SELECT COUNT(*) FROM catalog_items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}

	if _, err := ro.Exec(`DELETE FROM catalog_items`); err == nil {
		t.Error("expected write to read-only database to fail")
	}
}

func TestSchemaRejectsNegativeBase(t *testing.T) {
	database := NewTestDB(t)
	_, err := database.Exec(`INSERT INTO catalog_items (id, position, name, base_quantity) VALUES ('a', 0, 'A', -5)`)
	if err == nil {
		t.Error("expected CHECK constraint failure")
	}
}
