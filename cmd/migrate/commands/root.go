package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/mmynk/patungan/internal/storage/sqlite"
)

func defaultDBPath() string {
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	return "./data/patungan.db"
}

// Execute runs the migrate CLI with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

// migratorFunc runs fn with a migrator that is closed afterwards.
type migratorFunc func(fn func(m *migrate.Migrate) error) error

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the patungan database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "path to the SQLite database (env DB_PATH)")

	withMigrator := func(fn func(m *migrate.Migrate) error) error {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m, err := sqlite.NewMigrator(dbPath)
		if err != nil {
			return err
		}
		err = fn(m)
		srcErr, dbErr := m.Close()
		return errors.Join(err, srcErr, dbErr)
	}

	root.AddCommand(upCmd(withMigrator), downCmd(withMigrator), versionCmd(withMigrator), forceCmd(withMigrator))
	return root
}

func upCmd(withMigrator migratorFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				err := m.Up()
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run (database is up to date)")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
				return nil
			})
		},
	}
}

func downCmd(withMigrator migratorFunc) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (all of them unless --steps is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				var err error
				if steps > 0 {
					err = m.Steps(-steps)
				} else {
					err = m.Down()
				}
				if err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("failed to roll back migrations: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rollback completed successfully")
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back")
	return cmd
}

func versionCmd(withMigrator migratorFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d (dirty: %v)\n", version, dirty)
				return nil
			})
		},
	}
}

func forceCmd(withMigrator migratorFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations, clearing the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withMigrator(func(m *migrate.Migrate) error {
				if err := m.Force(version); err != nil {
					return fmt.Errorf("failed to force version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Forced version %d\n", version)
				return nil
			})
		},
	}
}
