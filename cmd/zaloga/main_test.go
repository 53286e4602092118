package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/snapshot"
	"github.com/erazemk/zaloga/internal/store"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr, slog.LevelInfo, false))

	logger.Debug("hidden")
	logger.Info("info line")
	logger.With("stream", "abc").Warn("warn line")
	logger.Error("error line")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(stdout.String(), "info line") || !strings.Contains(stdout.String(), "warn line") {
		t.Errorf("expected info and warn on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "stream=abc") {
		t.Errorf("expected attrs to survive WithAttrs, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "error line") {
		t.Error("error record should not go to stdout")
	}
	if !strings.Contains(stderr.String(), "error line") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestLoadCatalogCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "zaloga.sqlite3")
	cfg := &config.Config{DBPath: dbPath, Schedule: snapshot.DefaultSchedule()}

	cat, sched, err := loadCatalog(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatal("expected default catalog to be seeded")
	}
	if sched.Since.IsZero() {
		t.Error("expected timeline start to be recorded on first run")
	}

	// A second start serves the same catalog and the same timeline.
	again, sched2, err := loadCatalog(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadCatalog (existing): %v", err)
	}
	if again.Version() != cat.Version() {
		t.Errorf("version changed: %s -> %s", cat.Version(), again.Version())
	}
	if !sched2.Since.Equal(sched.Since) {
		t.Errorf("timeline start changed: %v -> %v", sched.Since, sched2.Since)
	}

	database, err := db.OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer database.Close()
	n, err := store.CountItems(context.Background(), database)
	if err != nil || n != cat.Len() {
		t.Errorf("CountItems = %d, %v; want %d", n, err, cat.Len())
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	writeFile(t, path, `[{"id":"a","name":"A","unit":"pcs","baseQuantity":3,"morningDelta":1,"nightDelta":-1}]`)

	cfg := &config.Config{
		DBPath:      filepath.Join(t.TempDir(), "unused.sqlite3"),
		CatalogPath: path,
		Schedule:    snapshot.DefaultSchedule(),
	}
	cat, sched, err := loadCatalog(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if cat.Len() != 1 {
		t.Errorf("expected 1 item, got %d", cat.Len())
	}
	if !sched.Since.IsZero() {
		t.Error("JSON catalogs should leave the timeline unbounded")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadCatalogWarnsOnEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.sqlite3")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.EnsureSchema(database); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	database.Close()

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(newLevelRouter(&logs, &logs, slog.LevelInfo, false)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := &config.Config{DBPath: dbPath, Schedule: snapshot.DefaultSchedule()}
	cat, _, err := loadCatalog(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if cat.Len() != 0 {
		t.Errorf("expected empty catalog, got %d items", cat.Len())
	}
	if !strings.Contains(logs.String(), "catalog database has no items") {
		t.Errorf("expected empty-catalog warning, got %q", logs.String())
	}
}
