package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/deppfellow/sportspredict/internal/database"
	"github.com/deppfellow/sportspredict/internal/handler"
	"github.com/deppfellow/sportspredict/internal/repository"
	"github.com/deppfellow/sportspredict/internal/router"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
	"github.com/spf13/cobra"
)

const (
	migrateTimeout  = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database, then serve the HTTP API, import worker and archive schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(os.Stdout)
			if err != nil {
				return err
			}
			defer a.close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	log := &a.logger

	if a.cfg.Primary.Env != "local" {
		migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
		err := database.Migrate(migrateCtx, log, a.cfg)
		cancel()
		if err != nil {
			return err
		}
	}

	srv, err := server.New(a.cfg, log, a.loggerService)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)
	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	srv.Job.RegisterImportHandler(services.Ingest)
	if a.cfg.Archive.Enabled {
		err := srv.Job.Schedule("archive", a.cfg.Archive.Schedule, a.cfg.Archive.Timeout, func(ctx context.Context) error {
			_, err := services.Archive.Run(ctx, 0)
			return err
		})
		if err != nil {
			return err
		}
	}
	if err := srv.Job.Start(); err != nil {
		log.Error().Err(err).Msg("job service not started, imports and scheduled archival are disabled")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return errors.Join(err, srv.Shutdown(shutdownCtx))
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
