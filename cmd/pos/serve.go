package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/restaurant-pos/internal/handler"
	"github.com/deppfellow/restaurant-pos/internal/lib/email"
	"github.com/deppfellow/restaurant-pos/internal/router"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if a.cfg.Primary.Env != "local" {
				if err := runMigrations(ctx, a); err != nil {
					return err
				}
			}

			srv, services, err := a.connect()
			if err != nil {
				return err
			}

			if n, err := services.Accounts.EnsureDefaults(ctx); err != nil {
				a.logger.Error().Err(err).Msg("failed to fill default password hashes")
			} else if n > 0 {
				a.logger.Info().Int64("accounts", n).Msg("filled default password hashes")
			}

			srv.Job.InitHandlers(email.NewClient(a.cfg, &a.logger), services.Bills)
			if err := srv.Job.Start(); err != nil {
				a.logger.Error().Err(err).Msg("background workers not started")
			}

			r := router.NewRouter(srv, handler.NewHandlers(srv, services))
			srv.SetupHTTPServer(r)

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.Start()
			}()

			select {
			case err := <-serveErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				a.logger.Info().Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			a.logger.Info().Msg("server exited properly")
			return nil
		},
	}
}
