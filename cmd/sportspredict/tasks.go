package main

import (
	"context"
	"errors"
	"os"

	"github.com/deppfellow/sportspredict/internal/database"
	"github.com/deppfellow/sportspredict/internal/ingest"
	"github.com/deppfellow/sportspredict/internal/lib/utils"
	"github.com/deppfellow/sportspredict/internal/repository"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(os.Stdout)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()
			return database.Migrate(ctx, &a.logger, a.cfg)
		},
	}
}

// withServices runs fn against a database-only container. Logs go to stderr
// so stdout carries only the command's JSON output.
func withServices(ctx context.Context, fn func(ctx context.Context, services *service.Services) (any, error)) error {
	a, err := bootstrap(os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := server.NewStandalone(a.cfg, &a.logger, a.loggerService)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			a.logger.Error().Err(err).Msg("failed to close database")
		}
	}()

	services := service.NewServices(srv, repository.NewRepositories(srv))

	result, err := fn(ctx, services)
	if err != nil {
		return err
	}
	return utils.PrintJSON(os.Stdout, result)
}

func newImportCmd() *cobra.Command {
	var eventsPath, predictionsPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import event and prediction records from JSON files",
		Long: "Import event and prediction records from JSON files. Records that cannot be decoded " +
			"or stored are skipped and listed in the printed summary.",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if eventsPath == "" && predictionsPath == "" {
				return errors.New("at least one of --events or --predictions is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, err := ingest.LoadBatch(eventsPath, predictionsPath)
			if err != nil {
				return err
			}

			return withServices(cmd.Context(), func(ctx context.Context, services *service.Services) (any, error) {
				return services.Ingest.Import(ctx, batch)
			})
		},
	}

	cmd.Flags().StringVar(&eventsPath, "events", "", "path to a JSON array of event records")
	cmd.Flags().StringVar(&predictionsPath, "predictions", "", "path to a JSON array of prediction records")
	return cmd
}

func newArchiveCmd() *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive events older than the retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if retentionDays < 0 {
				return errors.New("--retention-days must not be negative")
			}
			return withServices(cmd.Context(), func(ctx context.Context, services *service.Services) (any, error) {
				return services.Archive.Run(ctx, retentionDays)
			})
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "archive events older than this many days (default: archive.retention_days)")
	return cmd
}
