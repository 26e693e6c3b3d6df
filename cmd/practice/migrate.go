package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/simp-lee/practice/internal/config"
	"github.com/simp-lee/practice/internal/db"
	"github.com/simp-lee/practice/internal/db/migrations"
)

var errGooseOnly = errors.New("versioned migrations require the postgres driver; sqlite uses auto migration")

func migrateCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(load, func(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log *slog.Logger) error {
				if cfg.Database.Driver != "postgres" {
					return db.Migrate(ctx, gdb, config.MigrateAuto, log)
				}
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				n, err := db.Up(ctx, sqlDB, migrations.FS, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(load, func(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log *slog.Logger) error {
				if cfg.Database.Driver != "postgres" {
					return errGooseOnly
				}
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return db.Down(ctx, sqlDB, migrations.FS, log)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(load, func(ctx context.Context, gdb *gorm.DB, cfg *config.Config, _ *slog.Logger) error {
				if cfg.Database.Driver != "postgres" {
					return errGooseOnly
				}
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				statuses, err := db.Status(ctx, sqlDB, migrations.FS)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tFILE\tAPPLIED")
				for _, s := range statuses {
					fmt.Fprintf(tw, "%d\t%s\t%t\n", s.Version, s.File, s.Applied)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}

// withDatabase loads the configuration, opens the database and runs fn,
// closing everything afterwards.
func withDatabase(load loadFunc, fn func(context.Context, *gorm.DB, *config.Config, *slog.Logger) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer log.Close()

	gdb, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	defer func() { _ = config.CloseDatabase(gdb) }()

	return fn(context.Background(), gdb, cfg, log.Logger)
}
