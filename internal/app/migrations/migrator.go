package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/tuhmaz/edu/internal/db"
)

//go:embed sql/*.sql
var embedded embed.FS

// Schema returns the embedded migration files.
func Schema() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Conn is the part of a pool the migrator needs.
type Conn interface {
	db.TxBeginner
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrator manages database migrations
type Migrator struct {
	db     Conn
	files  fs.FS
	logger zerolog.Logger
}

// NewMigrator creates a new migrator reading .sql files from files
func NewMigrator(conn Conn, files fs.FS, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     conn,
		files:  files,
		logger: logger,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Version extracts the version prefix of a migration file ("001_init.sql" => "001").
func Version(filename string) string {
	return strings.Split(path.Base(filename), "_")[0]
}

// MigrateFile executes one migration file and records it in the same transaction
func (m *Migrator) MigrateFile(ctx context.Context, name string) error {
	version := Version(name)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("migration", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.files, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = db.WithTransaction(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration execution of %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("migration", name).Msg("Migration file successfully applied")
	return nil
}

// sqlFiles lists the .sql files in version order.
func (m *Migrator) sqlFiles() ([]string, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)
	return sqlFiles, nil
}

// Migrate applies every pending migration in order
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := m.sqlFiles()
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := m.MigrateFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// MigrateAll applies the embedded schema to every partition of the registry.
func MigrateAll(ctx context.Context, registry *db.Registry, logger zerolog.Logger) error {
	for _, conn := range registry.Connections() {
		pg, err := registry.Get(conn)
		if err != nil {
			return err
		}

		l := logger.With().Str("connection", conn.String()).Str("database", pg.Name).Logger()
		if err := NewMigrator(pg.Pool, Schema(), l).Migrate(ctx); err != nil {
			return fmt.Errorf("migrate partition %s: %w", conn, err)
		}
	}
	return nil
}
