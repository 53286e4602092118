package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("expected non-empty default catalog")
	}
	for _, it := range c.Items() {
		if it.BaseQuantity+it.MorningDelta+it.NightDelta < 0 {
			t.Errorf("item %q goes negative at night", it.ID)
		}
	}
}

func TestNewCopiesItems(t *testing.T) {
	items := []model.Item{{ID: "a", Name: "A", BaseQuantity: 1}}
	c, err := New(items)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	items[0].BaseQuantity = 99
	if c.Items()[0].BaseQuantity != 1 {
		t.Error("catalog shares storage with caller")
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New([]model.Item{{ID: "a", Name: "A", BaseQuantity: -1}})
	if !errors.Is(err, model.ErrNegativeBase) {
		t.Errorf("expected ErrNegativeBase, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	a, _ := New([]model.Item{{ID: "a", Name: "A", BaseQuantity: 1}})
	b, _ := New([]model.Item{{ID: "a", Name: "A", BaseQuantity: 1}})
	c, _ := New([]model.Item{{ID: "a", Name: "A", BaseQuantity: 2}})

	if a.Version() != b.Version() {
		t.Error("equal catalogs have different versions")
	}
	if a.Version() == c.Version() {
		t.Error("different catalogs share a version")
	}
	if len(a.Version()) != 16 {
		t.Errorf("expected 16 hex chars, got %q", a.Version())
	}

	empty, _ := New(nil)
	var nilCatalog *Catalog
	if empty.Version() != nilCatalog.Version() {
		t.Error("empty and nil catalog versions differ")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	os.WriteFile(good, []byte(`[{"id":"a","name":"A","unit":"pcs","baseQuantity":3,"morningDelta":1,"nightDelta":-2}]`), 0644)
	c, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 1 || c.Items()[0].NightDelta != -2 {
		t.Errorf("unexpected items: %+v", c.Items())
	}

	typo := filepath.Join(dir, "typo.json")
	os.WriteFile(typo, []byte(`[{"id":"a","name":"A","nightDetla":-2}]`), 0644)
	if _, err := LoadFile(typo); err == nil || !strings.Contains(err.Error(), "nightDetla") {
		t.Errorf("expected unknown field error, got %v", err)
	}

	dup := filepath.Join(dir, "dup.json")
	os.WriteFile(dup, []byte(`[{"id":"a","name":"A"},{"id":"a","name":"B"}]`), 0644)
	if _, err := LoadFile(dup); !errors.Is(err, model.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDB(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	def, _ := Default()
	if err := store.ReplaceItems(ctx, database, def.Items()); err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}

	c, err := LoadDB(ctx, database)
	if err != nil {
		t.Fatalf("LoadDB: %v", err)
	}
	if c.Version() != def.Version() {
		t.Errorf("catalog changed through the database: %s != %s", c.Version(), def.Version())
	}
}
