package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// ListItems returns the catalog in its stored order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, unit, base_quantity, morning_delta, night_delta
		 FROM catalog_items ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &it.BaseQuantity, &it.MorningDelta, &it.NightDelta); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountItems returns the number of catalog items.
func CountItems(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting catalog items: %w", err)
	}
	return n, nil
}

// ReplaceItems replaces the whole catalog in one transaction. Items are
// validated first; an invalid catalog leaves the stored one untouched.
func ReplaceItems(ctx context.Context, db *sql.DB, items []model.Item) error {
	if err := model.ValidateItems(items); err != nil {
		return fmt.Errorf("validating catalog: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_items (id, position, name, unit, base_quantity, morning_delta, night_delta)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		if _, err := stmt.ExecContext(ctx, it.ID, i, it.Name, it.Unit, it.BaseQuantity, it.MorningDelta, it.NightDelta); err != nil {
			return fmt.Errorf("inserting item %q: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}
