// internal/adapters/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	defaultMigrationsTable  = "schema_migrations"
	defaultStatementTimeout = 5 * time.Minute
	migrationPingTimeout    = 5 * time.Second
)

// MigrationConfig holds migration configuration
type MigrationConfig struct {
	DatabaseURL string
	// SourcePath reads migrations from a directory instead of the binary
	SourcePath       string
	TableName        string
	SchemaName       string
	ForceDirty       bool
	StatementTimeout time.Duration
}

// MigrationStatus describes where the schema stands against the known migrations
type MigrationStatus struct {
	Current uint `json:"current"`
	Latest  uint `json:"latest"`
	Pending int  `json:"pending"`
	Dirty   bool `json:"dirty"`
}

// Migrator applies the delivery schema: catalog tables, deliveries, the sync
// journal and the SQL functions behind tracking numbers and sync locks.
type Migrator struct {
	migrate  *migrate.Migrate
	versions []uint
	config   MigrationConfig
	logger   *slog.Logger
	conn     *sql.DB
}

func openSource(cfg MigrationConfig) (source.Driver, string, error) {
	if cfg.SourcePath != "" {
		src, err := source.Open("file://" + cfg.SourcePath)
		return src, "file", err
	}
	src, err := iofs.New(migrationFiles, "migrations")
	return src, "iofs", err
}

// sourceVersions lists every migration version the source knows, ascending.
func sourceVersions(src source.Driver) ([]uint, error) {
	v, err := src.First()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	versions := []uint{v}
	for {
		v, err = src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return versions, nil
		}
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
}

// NewMigrator opens a dedicated database/sql connection for golang-migrate.
func NewMigrator(ctx context.Context, config MigrationConfig, logger *slog.Logger) (*Migrator, error) {
	if config.DatabaseURL == "" {
		return nil, errors.New("migration database url is required")
	}
	if config.TableName == "" {
		config.TableName = defaultMigrationsTable
	}
	if config.SchemaName == "" {
		config.SchemaName = "public"
	}
	if config.StatementTimeout == 0 {
		config.StatementTimeout = defaultStatementTimeout
	}

	conn, err := sql.Open("pgx", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	conn.SetMaxOpenConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, migrationPingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{
		MigrationsTable:  config.TableName,
		SchemaName:       config.SchemaName,
		StatementTimeout: config.StatementTimeout,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	src, sourceName, err := openSource(config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	versions, err := sourceVersions(src)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	m, err := migrate.NewWithInstance(sourceName, src, "postgres", driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return &Migrator{
		migrate:  m,
		versions: versions,
		config:   config,
		logger:   logger.With(slog.String("component", "migrator")),
		conn:     conn,
	}, nil
}

// Status reports the applied version against the newest known migration
func (m *Migrator) Status(ctx context.Context) (MigrationStatus, error) {
	var status MigrationStatus
	current, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("failed to read schema version: %w", err)
	}
	status.Current = current
	status.Dirty = dirty
	if n := len(m.versions); n > 0 {
		status.Latest = m.versions[n-1]
	}
	for _, v := range m.versions {
		if v > current {
			status.Pending++
		}
	}
	return status, nil
}

// Up applies every pending migration. A dirty schema is refused unless
// ForceDirty is set, in which case the dirty version is forced first.
func (m *Migrator) Up(ctx context.Context) error {
	before, err := m.Status(ctx)
	if err != nil {
		return err
	}

	if before.Dirty {
		if !m.config.ForceDirty {
			return fmt.Errorf("schema is dirty at version %d, fix it and run migrate force", before.Current)
		}
		m.logger.WarnContext(ctx, "forcing dirty schema version", slog.Uint64("version", uint64(before.Current)))
		if err := m.migrate.Force(int(before.Current)); err != nil {
			return fmt.Errorf("failed to force version %d: %w", before.Current, err)
		}
	}

	if before.Pending == 0 {
		m.logger.InfoContext(ctx, "schema is up to date", slog.Uint64("version", uint64(before.Current)))
		return nil
	}

	if err := m.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	m.logger.InfoContext(ctx, "migrations applied",
		slog.Uint64("from_version", uint64(before.Current)),
		slog.Uint64("to_version", uint64(before.Latest)),
		slog.Int("applied", before.Pending))
	return nil
}

// Down rolls back steps migrations
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := m.migrate.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back %d migration(s): %w", steps, err)
	}
	m.logger.InfoContext(ctx, "migrations rolled back", slog.Int("steps", steps))
	return nil
}

// Force records version as applied and clean without running anything
func (m *Migrator) Force(ctx context.Context, version int) error {
	m.logger.WarnContext(ctx, "forcing schema version", slog.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the migration source and connection
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if err := errors.Join(sourceErr, dbErr); err != nil {
		return fmt.Errorf("failed to close migrator: %w", err)
	}
	if err := m.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("failed to close migration connection: %w", err)
	}
	return nil
}

// MigrateUp applies pending migrations, retrying while the database comes up.
// The wait grows by two seconds per attempt.
func MigrateUp(ctx context.Context, config MigrationConfig, logger *slog.Logger, attempts int) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * 2 * time.Second
			logger.WarnContext(ctx, "retrying migrations",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.String("error", lastErr.Error()))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = migrateOnce(ctx, config, logger)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("migrations failed after %d attempt(s): %w", attempts, lastErr)
}

func migrateOnce(ctx context.Context, config MigrationConfig, logger *slog.Logger) error {
	m, err := NewMigrator(ctx, config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.WarnContext(ctx, "failed to close migrator", slog.String("error", err.Error()))
		}
	}()
	return m.Up(ctx)
}
