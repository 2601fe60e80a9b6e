// Package cli implements the secex command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"secex-api/internal/config"
	internaldb "secex-api/internal/db"
	"secex-api/internal/seed"
)

var dbPath string

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := &cobra.Command{
		Use:           "secex",
		Short:         "Trade statistics API administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite data file (default: DB_PATH env)")
	root.AddCommand(newMigrateCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return "", err
	}
	return cfg.DBPath, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolveDBPath()
			if err != nil {
				return err
			}
			db, err := internaldb.OpenSQLite(path, "write", 0)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			if err := internaldb.RunMigrations(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied:", path)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the embedded demo dataset (idempotent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolveDBPath()
			if err != nil {
				return err
			}
			db, err := internaldb.OpenSQLite(path, "write", 0)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			if err := internaldb.RunMigrations(db); err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			if err := seed.Run(cmd.Context(), db, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete:", path)
			return nil
		},
	}
}
