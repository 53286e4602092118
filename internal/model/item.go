package model

import (
	"errors"
	"fmt"
)

// Item is a static catalog entry. Items are loaded once at start-up and never
// change for the lifetime of the process.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	BaseQuantity int    `json:"baseQuantity"`
	MorningDelta int    `json:"morningDelta"`
	NightDelta   int    `json:"nightDelta"`
}

// Catalog validation errors.
var (
	ErrEmptyID      = errors.New("item id is empty")
	ErrDuplicateID  = errors.New("duplicate item id")
	ErrEmptyName    = errors.New("item name is empty")
	ErrNegativeBase = errors.New("base quantity is negative")
)

// QuantityAt returns the item's quantity during the given phase. The night
// delta compounds on top of the morning delta.
func (it Item) QuantityAt(p Phase) int {
	q := it.BaseQuantity
	if p == PhaseMorning || p == PhaseNight {
		q += it.MorningDelta
	}
	if p == PhaseNight {
		q += it.NightDelta
	}
	return q
}

// ValidateItems checks that every item has a unique non-empty id, a name, and a
// non-negative base quantity.
func ValidateItems(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("item %d: %w", i, ErrEmptyID)
		}
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("item %q: %w", it.ID, ErrDuplicateID)
		}
		seen[it.ID] = struct{}{}
		if it.Name == "" {
			return fmt.Errorf("item %q: %w", it.ID, ErrEmptyName)
		}
		if it.BaseQuantity < 0 {
			return fmt.Errorf("item %q: %w (%d)", it.ID, ErrNegativeBase, it.BaseQuantity)
		}
	}
	return nil
}
