// Package catalog loads the static item catalog.
//
// The catalog is read once at start-up, validated, and then shared read-only
// by every request and stream. There is no write path at runtime.
package catalog

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/crypto/blake2b"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

//go:embed default.json
var defaultJSON []byte

// Catalog is an immutable, validated list of items.
type Catalog struct {
	items   []model.Item
	version string
}

// New validates items and returns a catalog holding a private copy of them.
func New(items []model.Item) (*Catalog, error) {
	if err := model.ValidateItems(items); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	own := slices.Clone(items)
	return &Catalog{items: own, version: fingerprint(own)}, nil
}

// Items returns the catalog items in order. Callers must not modify the
// returned slice.
func (c *Catalog) Items() []model.Item {
	if c == nil {
		return nil
	}
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Version is a fingerprint of the item list alone. Instances with the same
// version agree on quantities and totals for the same instant; lastUpdateIso
// can still differ while their timeline starts differ.
func (c *Catalog) Version() string {
	if c == nil {
		return fingerprint(nil)
	}
	return c.version
}

// Default returns the embedded default catalog.
func Default() (*Catalog, error) {
	items, err := DecodeJSON(bytes.NewReader(defaultJSON))
	if err != nil {
		return nil, fmt.Errorf("decoding default catalog: %w", err)
	}
	return New(items)
}

// LoadFile reads and validates a JSON catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	items, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog file %s: %w", path, err)
	}
	return New(items)
}

// LoadDB reads and validates the catalog stored in a SQLite database.
func LoadDB(ctx context.Context, db *sql.DB) (*Catalog, error) {
	items, err := store.ListItems(ctx, db)
	if err != nil {
		return nil, err
	}
	return New(items)
}

// DecodeJSON decodes a JSON array of items. Unknown fields are rejected so
// that misspelled deltas fail at start-up instead of silently reading as 0.
func DecodeJSON(r io.Reader) ([]model.Item, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var items []model.Item
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func fingerprint(items []model.Item) string {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	writeString := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	writeInt := func(n int) {
		binary.BigEndian.PutUint64(buf[:], uint64(int64(n)))
		h.Write(buf[:])
	}
	for _, it := range items {
		writeString(it.ID)
		writeString(it.Name)
		writeString(it.Unit)
		writeInt(it.BaseQuantity)
		writeInt(it.MorningDelta)
		writeInt(it.NightDelta)
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
