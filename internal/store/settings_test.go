package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/zaloga/internal/db"
)

func TestEnsureTimelineStart_StoresOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, ok, err := GetTimelineStart(ctx, database); err != nil || ok {
		t.Fatalf("expected no timeline start, got ok=%v err=%v", ok, err)
	}

	first := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	got1, err := EnsureTimelineStart(ctx, database, first)
	if err != nil {
		t.Fatal(err)
	}
	if !got1.Equal(first) {
		t.Fatalf("expected %v, got %v", first, got1)
	}

	// A later call keeps the first value.
	got2, err := EnsureTimelineStart(ctx, database, first.Add(48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !got2.Equal(first) {
		t.Fatalf("expected %v, got %v", first, got2)
	}
}
