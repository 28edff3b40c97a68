package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deppfellow/restaurant-pos/internal/database"
	"github.com/deppfellow/restaurant-pos/internal/lib/email"
	"github.com/deppfellow/restaurant-pos/internal/lib/utils"
)

func runMigrations(ctx context.Context, a *app) error {
	if err := database.Migrate(ctx, &a.logger, a.cfg); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), a)
		},
	}
}

func newEnsureDefaultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-defaults",
		Short: "Fill missing default password hashes and table statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, services, err := a.connect()
			if err != nil {
				return err
			}
			defer srv.Shutdown(context.Background())

			accounts, err := services.Accounts.EnsureDefaults(cmd.Context())
			if err != nil {
				return err
			}

			tables, err := services.Tables.EnsureTablesDefaultStatus(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "accounts updated: %d\ntables updated: %d\n", accounts, tables)
			return nil
		},
	}
}

func newDiagnoseLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose-login <user> <password>",
		Short: "Show every hash the verifier tries for an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, services, err := a.connect()
			if err != nil {
				return err
			}
			defer srv.Shutdown(context.Background())

			report, err := services.Accounts.DiagnoseLogin(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newTablesCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the table list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, services, err := a.connect()
			if err != nil {
				return err
			}
			defer srv.Shutdown(context.Background())

			list := services.Tables.LoadTableList
			if all {
				list = services.Tables.ListAllTables
			}

			tables, err := list(cmd.Context())
			if err != nil {
				return err
			}

			return utils.PrintJSON(cmd.OutOrStdout(), tables)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include locked tables")
	return cmd
}

func newEmailPreviewCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "email-preview",
		Short: "Render every e-mail template with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			client := email.NewClient(a.cfg, &a.logger)
			for name, data := range email.PreviewData {
				body, err := client.Render(name, data)
				if err != nil {
					return fmt.Errorf("rendering %s: %w", name, err)
				}

				path := filepath.Join(outDir, string(name)+".html")
				if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "tmp/email-preview", "output directory")
	return cmd
}
