package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solemate/internal/database"
	"solemate/internal/database/migration"
)

func newMigrateCmd() *cobra.Command {
	runUp := func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Up(cmd.Context())
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema (defaults to up)",
		Args:  cobra.NoArgs,
		RunE:  runUp,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runUp,
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			return r.Down(cmd.Context(), steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			v, dirty, err := r.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func newRunner() (*migration.Runner, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	dsn, err := database.BuildPostgresDSN(e.cfg.Database)
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(e.log, dsn, e.cfg.Database.Host), nil
}
