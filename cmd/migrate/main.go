// Command migrate manages the postgres schema of the tax adapter.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/infrastructure/config"
	"github.com/taxbridge/backend/internal/infrastructure/logger"
	"github.com/taxbridge/backend/internal/infrastructure/migration"
	"github.com/taxbridge/backend/migrations"
)

const usage = `taxbridge database migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (positive=up, negative=down)
  version           Show current migration version
  force <version>   Force set migration version
  list              List available migrations

Flags:
  -path string        Read migrations from a directory (default: embedded)
  -log-level string   Log level: debug, info, warn, error (default: info)

Environment Variables:
  TAXBRIDGE_DATABASE_HOST, TAXBRIDGE_DATABASE_PORT, TAXBRIDGE_DATABASE_USER,
  TAXBRIDGE_DATABASE_PASSWORD, TAXBRIDGE_DATABASE_DBNAME, TAXBRIDGE_DATABASE_SSLMODE`

var errUsage = errors.New("usage")

type command func(m *migration.Migrator, log *zap.Logger, args []string) error

var commands = map[string]command{
	"up":   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() },
	"down": func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() },
	"step": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"force": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(v)
	},
	"version": func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	},
}

func main() {
	path := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", TimeFormat: "2006-01-02 15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	var source fs.FS = migrations.FS
	if *path != "" {
		source = os.DirFS(*path)
	}

	if err := run(args[0], args[1:], source, log); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(usage)
		}
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(name string, args []string, source fs.FS, log *zap.Logger) error {
	if name == "list" {
		return list(source)
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", name, errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("driver %q: migrations target postgres only, sqlite schemas are created at startup", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd(m, log, args)
}

func list(source fs.FS) error {
	names, err := migration.List(source)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No migrations found")
		return nil
	}
	for _, n := range names {
		fmt.Println("  -", n)
	}
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing numeric argument: %w", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[0], errUsage)
	}
	return n, nil
}
