package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/sportspredict/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// VersionTable records the applied schema version.
const VersionTable = "schema_version"

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema to the newest embedded migration over a
// dedicated connection, so it can run before the pool exists.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, DSN(cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := newMigrator(ctx, conn)
	if err != nil {
		return err
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	to := int32(len(m.Migrations))

	if from == to {
		logger.Info().Int32("version", to).Msg("database schema up to date")
		return nil
	}

	m.OnStart = func(sequence int32, name, _, _ string) {
		logger.Debug().Int32("sequence", sequence).Str("name", name).Msg("applying migration")
	}
	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating schema from version %d: %w", from, err)
	}

	logger.Info().Int32("from", from).Int32("to", to).Msg("migrated database schema")
	return nil
}

func newMigrator(ctx context.Context, conn *pgx.Conn) (*tern.Migrator, error) {
	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	if err := m.LoadMigrations(subtree); err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}
	return m, nil
}
