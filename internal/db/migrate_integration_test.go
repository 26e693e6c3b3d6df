//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/practice/internal/config"
	"github.com/simp-lee/practice/internal/db/migrations"
)

func TestGooseMigrations_UpStatusDown(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("practice"),
		tcpostgres.WithUsername("practice"),
		tcpostgres.WithPassword("practice"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, gdb, config.MigrateGoose, discard))
	assert.True(t, gdb.Migrator().HasTable("appointments"))

	// Second run is a no-op.
	n, err := Up(ctx, sqlDB, migrations.FS, discard)
	require.NoError(t, err)
	assert.Zero(t, n)

	statuses, err := Status(ctx, sqlDB, migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.True(t, s.Applied, "migration %d not applied", s.Version)
	}

	require.NoError(t, Down(ctx, sqlDB, migrations.FS, discard))
	assert.False(t, gdb.Migrator().HasTable("appointments"))
}
