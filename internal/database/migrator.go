package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// The SQL files are compiled into the binary, so a container image needs no
// migrations directory at runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable records the applied migration version.
const VersionTable = "schema_version"

// Migrate applies the embedded migrations up to the latest version.
//
// Behavior:
//   - Connect with a single pgx connection, not the application pool
//   - Load the embedded migrations into a tern migrator
//   - Migrate to the latest version
//   - Log whether the schema changed
func Migrate(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	// Migrations run once at startup, before the pool exists, and tern
	// holds its advisory lock on one connection for the whole run.
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	// tern wants an fs.FS rooted at the directory holding the files; it
	// orders them by the numeric filename prefix.
	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Versions count migrations, so an unchanged version means nothing ran.
	latest := int32(len(m.Migrations))
	if from == latest {
		logger.Info().Int32("version", latest).Msg("database schema up to date")
	} else {
		logger.Info().Int32("from", from).Int32("to", latest).Msg("migrated database schema")
	}
	return nil
}
