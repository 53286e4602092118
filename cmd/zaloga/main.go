package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/catalog"
	"github.com/erazemk/zaloga/internal/clock"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/snapshot"
	"github.com/erazemk/zaloga/internal/store"
	"github.com/erazemk/zaloga/internal/stream"
)

// levelRouter is a slog.Handler that routes DEBUG/INFO/WARN to stdout and
// ERROR+ to stderr.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// newLevelRouter builds the router over two writers. Color is turned off when
// the output is mirrored to a file.
func newLevelRouter(stdout, stderr io.Writer, level slog.Level, color bool) *levelRouter {
	opts := func(w io.Writer) slog.Handler {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    !color,
		})
	}
	return &levelRouter{level: level, stdout: opts(stdout), stderr: opts(stderr)}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also written to that file. Returns a cleanup function that closes
// the log file (if opened).
func setupLogger(logPath string, level slog.Level) (func(), error) {
	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(slog.New(newLevelRouter(stdoutW, stderrW, level, logPath == "")))
	return cleanup, nil
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "import" {
		os.Exit(runImport(args[1:]))
	}
	os.Exit(runServe(args))
}

func runServe(args []string) int {
	cfg, err := config.Load(args, os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	closeLog, err := setupLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}

	cat, sched, err := loadCatalog(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		return 1
	}
	slog.Info("catalog loaded", "items", cat.Len(), "version", cat.Version())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.Deps{
		Catalog:  cat,
		Schedule: sched,
		Clock:    clock.SystemClock{},
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})

	// Streams run on contexts derived from base, so cancelling it on shutdown
	// ends every open stream instead of waiting for clients to leave.
	base, cancelBase := context.WithCancelCause(context.Background())
	defer cancelBase(nil)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	server.RegisterOnShutdown(func() { cancelBase(stream.ErrServerShutdown) })

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
			// Drops streams still stuck in a write.
			server.Close()
		}
	}()

	slog.Info("server started",
		"addr", cfg.Addr,
		"morning", sched.Label(model.PhaseMorning),
		"night", sched.Label(model.PhaseNight),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return 1
	}

	slog.Info("server stopped")
	return 0
}

// loadCatalog returns the catalog to serve and the schedule to serve it on.
// A JSON catalog is used as is. Otherwise the catalog is read from the
// database, which is created and seeded with the default catalog on first run.
// The catalog is immutable for the life of the process, so the database is
// closed again before serving.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, snapshot.Schedule, error) {
	sched := cfg.Schedule

	if cfg.CatalogPath != "" {
		cat, err := catalog.LoadFile(cfg.CatalogPath)
		return cat, sched, err
	}

	if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
		if err := initDatabase(ctx, cfg.DBPath); err != nil {
			return nil, sched, fmt.Errorf("initializing database: %w", err)
		}
		slog.Info("database created with default catalog", "path", cfg.DBPath)
	}

	database, err := db.OpenReadOnly(cfg.DBPath)
	if err != nil {
		return nil, sched, fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	n, err := store.CountItems(ctx, database)
	if err != nil {
		return nil, sched, err
	}
	if n == 0 {
		slog.Warn("catalog database has no items", "path", cfg.DBPath)
	}

	cat, err := catalog.LoadDB(ctx, database)
	if err != nil {
		return nil, sched, err
	}

	since, ok, err := store.GetTimelineStart(ctx, database)
	if err != nil {
		return nil, sched, err
	}
	if ok {
		sched.Since = since
	}
	return cat, sched, nil
}

// initDatabase creates a new database seeded with the default catalog.
func initDatabase(ctx context.Context, path string) error {
	def, err := catalog.Default()
	if err != nil {
		return err
	}

	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if err := seed(ctx, database, def.Items()); err != nil {
		database.Close()
		os.Remove(path)
		return err
	}
	return database.Close()
}

// seed ensures the schema, replaces the stored catalog and records the start
// of the timeline if it has not been recorded yet.
func seed(ctx context.Context, database *sql.DB, items []model.Item) error {
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	if err := store.ReplaceItems(ctx, database, items); err != nil {
		return err
	}
	if _, err := store.EnsureTimelineStart(ctx, database, time.Now()); err != nil {
		return err
	}
	return nil
}

func runImport(args []string) int {
	cfg, err := config.LoadImport(args, os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	closeLog, err := setupLogger("", slog.LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}

	cat, err := catalog.LoadFile(cfg.From)
	if err != nil {
		slog.Error("failed to read catalog", "path", cfg.From, "error", err)
		return 1
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return 1
	}
	defer database.Close()

	if err := seed(context.Background(), database, cat.Items()); err != nil {
		slog.Error("failed to import catalog", "error", err)
		return 1
	}

	fmt.Printf("Imported %d items into %s (version %s).\n", cat.Len(), cfg.DBPath, cat.Version())
	fmt.Println("Restart running servers to serve the new catalog.")
	return 0
}
