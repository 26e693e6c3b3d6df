// Package db applies the practice schema, either through GORM AutoMigrate or
// through the embedded goose migrations for PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/simp-lee/practice/internal/config"
	"github.com/simp-lee/practice/internal/db/migrations"
	"github.com/simp-lee/practice/internal/domain"
)

// Migrate brings the schema up to date using strategy, one of the
// config.Migrate* constants.
func Migrate(ctx context.Context, gdb *gorm.DB, strategy string, log *slog.Logger) error {
	switch strategy {
	case config.MigrateNone:
		return nil
	case config.MigrateGoose:
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		_, err = Up(ctx, sqlDB, migrations.FS, log)
		return err
	case config.MigrateAuto, "":
		if err := gdb.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.LogAttrs(ctx, slog.LevelInfo, "auto migration completed", slog.Int("models", len(domain.Models())))
		return nil
	default:
		return fmt.Errorf("unknown migration strategy %q", strategy)
	}
}

func newProvider(sqlDB *sql.DB, fsys fs.FS) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("creating goose provider: %w", err)
	}
	return provider, nil
}

// Up applies all pending migrations from fsys and returns how many ran.
func Up(ctx context.Context, sqlDB *sql.DB, fsys fs.FS, log *slog.Logger) (int, error) {
	provider, err := newProvider(sqlDB, fsys)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}
	for _, r := range results {
		if r.Error != nil {
			return 0, fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}
		log.LogAttrs(ctx, slog.LevelInfo, "migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	if len(results) == 0 {
		log.LogAttrs(ctx, slog.LevelDebug, "all migrations already applied")
	}
	return len(results), nil
}

// Down rolls back the most recently applied migration.
func Down(ctx context.Context, sqlDB *sql.DB, fsys fs.FS, log *slog.Logger) error {
	provider, err := newProvider(sqlDB, fsys)
	if err != nil {
		return err
	}
	r, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	log.LogAttrs(ctx, slog.LevelInfo, "migration rolled back",
		slog.Int64("version", r.Source.Version),
		slog.String("file", r.Source.Path),
	)
	return nil
}

// MigrationStatus describes one migration file and whether it is applied.
type MigrationStatus struct {
	Version int64
	File    string
	Applied bool
}

// Status lists every migration in fsys with its applied state.
func Status(ctx context.Context, sqlDB *sql.DB, fsys fs.FS) ([]MigrationStatus, error) {
	provider, err := newProvider(sqlDB, fsys)
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			File:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
