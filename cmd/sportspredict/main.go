// Command sportspredict serves the events and predictions API and runs its
// maintenance tasks.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/sportspredict/internal/config"
	"github.com/deppfellow/sportspredict/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the state every subcommand starts from.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *logger.LoggerService
}

// bootstrap loads the config and builds the root logger writing to out.
func bootstrap(out io.Writer) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	return &app{
		cfg:           cfg,
		logger:        logger.NewLoggerTo(out, cfg.Observability, loggerService),
		loggerService: loggerService,
	}, nil
}

func (a *app) close() {
	a.loggerService.Shutdown()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sportspredict",
		Short:         "Sports events and predictions API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newImportCmd(),
		newArchiveCmd(),
	)
	return root
}

// run cancels the command context on SIGINT or SIGTERM.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
