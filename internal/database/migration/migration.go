package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Source returns the embedded migration files as a migrate source driver.
func Source() (source.Driver, error) {
	return iofs.New(files, "sql")
}

// URL rewrites a postgres:// DSN to the scheme understood by the pgx/v5 migrate driver.
func URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// Runner applies the embedded schema migrations and reports progress as
// structured db_migration_* events.
type Runner struct {
	log    *slog.Logger
	dbURL  string
	dbHost string
}

// NewRunner builds a Runner for the database at dsn.
func NewRunner(log *slog.Logger, dsn, dbHost string) *Runner {
	return &Runner{
		log:    log.With("component", "database", "db_host", dbHost),
		dbURL:  URL(dsn),
		dbHost: dbHost,
	}
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (r *Runner) Up(ctx context.Context) error {
	return r.run(ctx, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// Down rolls back the given number of migrations.
func (r *Runner) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be positive, got %d", steps)
	}
	return r.run(ctx, "down", func(m *migrate.Migrate) error { return m.Steps(-steps) })
}

// Version reports the applied schema version and whether the last migration failed midway.
func (r *Runner) Version() (version uint, dirty bool, err error) {
	m, err := r.open()
	if err != nil {
		return 0, false, err
	}
	defer r.close(m)

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (r *Runner) run(ctx context.Context, direction string, apply func(*migrate.Migrate) error) error {
	start := time.Now()
	r.log.Info("db_migration_check", "event", "db_migration_check", "status", "starting", "direction", direction)

	m, err := r.open()
	if err != nil {
		r.failed(start, err)
		return err
	}
	defer r.close(m)

	r.log.Info("db_migration_start", "event", "db_migration_start", "status", "in_progress", "direction", direction)

	done := make(chan error, 1)
	go func() { done <- apply(m) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		m.GracefulStop <- true
		err = <-done
		if err == nil {
			err = ctx.Err()
		}
	}

	if errors.Is(err, migrate.ErrNoChange) {
		r.log.Info("schema already up to date, skipping migration",
			"event", "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
	if err != nil {
		r.failed(start, err)
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	r.log.Info("db_migration_success",
		"event", "db_migration_success",
		"status", "success",
		"direction", direction,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (r *Runner) open() (*migrate.Migrate, error) {
	src, err := Source()
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, r.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open migrator: %w", err)
	}
	m.Log = stepLogger{log: r.log}
	return m, nil
}

func (r *Runner) close(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		r.log.Warn("close migrator", "error", err)
	}
}

func (r *Runner) failed(start time.Time, err error) {
	r.log.Error("db_migration_failed",
		"event", "db_migration_failed",
		"status", "error",
		"error_message", err.Error(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// stepLogger adapts migrate's logger interface to slog so each applied
// file shows up as a db_migration_step event.
type stepLogger struct {
	log *slog.Logger
}

func (l stepLogger) Printf(format string, v ...any) {
	l.log.Info("db_migration_step",
		"event", "db_migration_step",
		"status", "success",
		"migration_step", strings.TrimSpace(fmt.Sprintf(format, v...)),
	)
}

func (l stepLogger) Verbose() bool { return false }
