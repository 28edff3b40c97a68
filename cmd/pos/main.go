package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/restaurant-pos/internal/config"
	"github.com/deppfellow/restaurant-pos/internal/logger"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *logger.LoggerService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pos",
		Short:         "Restaurant point-of-sale backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			a.cfg = cfg
			a.loggerService = logger.NewLoggerService(cfg.Observability)
			a.logger = logger.NewLoggerWithService(cfg.Observability, a.loggerService)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.loggerService.Shutdown()
		},
	}

	serve := newServeCmd(a)
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		newMigrateCmd(a),
		newEnsureDefaultsCmd(a),
		newDiagnoseLoginCmd(a),
		newTablesCmd(a),
		newEmailPreviewCmd(a),
	)

	return root
}

// connect opens the server container and the services on top of it. The
// caller owns the returned server and must shut it down.
func (a *app) connect() (*server.Server, *service.Services, error) {
	srv, err := server.New(a.cfg, &a.logger, a.loggerService)
	if err != nil {
		return nil, nil, err
	}

	repos := repository.NewRepositories(srv)
	return srv, service.NewServices(srv, repos), nil
}
