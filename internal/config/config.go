// Package config turns command-line flags and environment variables into
// server settings. Flags win over the environment; the environment wins over
// defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/erazemk/zaloga/internal/snapshot"
)

// Config holds the serve settings.
type Config struct {
	Addr        string
	DBPath      string
	CatalogPath string // JSON catalog; bypasses the database when set
	LogPath     string
	LogLevel    slog.Level
	Schedule    snapshot.Schedule
}

// ImportConfig holds the import settings.
type ImportConfig struct {
	DBPath string
	From   string
}

const serveUsage = `Usage: zaloga [flags]
       zaloga import [flags]

Flags:
  -a, -addr <host:port>   listen address (default: :8080)
  -d, -db <path>          SQLite catalog database (default: zaloga.sqlite3)
  -c, -catalog <path>     JSON catalog file; skips the database
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
      -log-level <level>  debug, info, warn or error (default: info)
      -morning <HH:MM>    morning boundary, UTC (default: 08:00)
      -night <HH:MM>      night boundary, UTC (default: 20:00)
  -h, -help               show this help and exit

Every flag can also be set with ZALOGA_<NAME> (e.g. ZALOGA_ADDR, ZALOGA_LOG_LEVEL).
`

const importUsage = `Usage: zaloga import -from <catalog.json> [flags]

Validates a JSON catalog and replaces the catalog stored in the database.

Flags:
  -d, -db <path>          SQLite catalog database (default: zaloga.sqlite3)
  -f, -from <path>        JSON catalog file to import
  -h, -help               show this help and exit
`

// LoadDotEnv loads variables from the given .env files (default ".env").
// Missing files are skipped and variables already in the environment are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load parses serve flags. It returns flag.ErrHelp when help was requested.
func Load(args []string, out io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("zaloga", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(out, serveUsage) }

	var addr string
	fs.StringVar(&addr, "addr", env("ADDR", ":8080"), "")
	fs.StringVar(&addr, "a", env("ADDR", ":8080"), "")

	var dbPath string
	fs.StringVar(&dbPath, "db", env("DB", "zaloga.sqlite3"), "")
	fs.StringVar(&dbPath, "d", env("DB", "zaloga.sqlite3"), "")

	var catalogPath string
	fs.StringVar(&catalogPath, "catalog", env("CATALOG", ""), "")
	fs.StringVar(&catalogPath, "c", env("CATALOG", ""), "")

	var logPath string
	fs.StringVar(&logPath, "log", env("LOG", ""), "")
	fs.StringVar(&logPath, "l", env("LOG", ""), "")

	logLevel := fs.String("log-level", env("LOG_LEVEL", "info"), "")
	morning := fs.String("morning", env("MORNING", "08:00"), "")
	night := fs.String("night", env("NIGHT", "20:00"), "")

	if err := parse(fs, args); err != nil {
		return nil, err
	}

	level, err := ParseLevel(*logLevel)
	if err != nil {
		return nil, err
	}

	sched, err := snapshot.ParseSchedule(*morning, *night)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:        addr,
		DBPath:      dbPath,
		CatalogPath: catalogPath,
		LogPath:     logPath,
		LogLevel:    level,
		Schedule:    sched,
	}, nil
}

// LoadImport parses import flags. It returns flag.ErrHelp when help was
// requested.
func LoadImport(args []string, out io.Writer) (*ImportConfig, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(out, importUsage) }

	var cfg ImportConfig
	fs.StringVar(&cfg.DBPath, "db", env("DB", "zaloga.sqlite3"), "")
	fs.StringVar(&cfg.DBPath, "d", env("DB", "zaloga.sqlite3"), "")
	fs.StringVar(&cfg.From, "from", "", "")
	fs.StringVar(&cfg.From, "f", "", "")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if cfg.From == "" {
		fs.Usage()
		return nil, errors.New("import: -from is required")
	}
	return &cfg, nil
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			fs.Usage()
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func env(name, fallback string) string {
	if v := os.Getenv("ZALOGA_" + name); v != "" {
		return v
	}
	return fallback
}
