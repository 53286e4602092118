package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timelineStartKey = "timeline_start"

// EnsureTimelineStart records now as the start of the modeled timeline unless
// one is already stored, and returns the stored value. Boundaries before it
// never happened.
// Uses INSERT OR IGNORE + re-SELECT so concurrent first runs agree on one value.
func EnsureTimelineStart(ctx context.Context, db *sql.DB, now time.Time) (time.Time, error) {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		timelineStartKey, now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("storing %s: %w", timelineStartKey, err)
	}

	start, ok, err := GetTimelineStart(ctx, db)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%s missing after insert", timelineStartKey)
	}
	return start, nil
}

// GetTimelineStart returns the stored timeline start, if any.
func GetTimelineStart(ctx context.Context, db *sql.DB) (time.Time, bool, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, timelineStartKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying %s: %w", timelineStartKey, err)
	}

	start, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing %s: %w", timelineStartKey, err)
	}
	return start.UTC(), true, nil
}
