// Package dbtest opens throwaway migrated sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"account-storefront/internal/client"
	"account-storefront/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, "?_busy_timeout=5000")
}

// NewConcurrent opens a WAL database with several connections, so reads outside a
// transaction see the last committed state the way MySQL and Postgres readers do.
func NewConcurrent(t *testing.T) *gorm.DB {
	t.Helper()

	db := open(t, "?_busy_timeout=5000&_journal_mode=WAL")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)

	return db
}

func open(t *testing.T, params string) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storefront.db")
	db, err := client.OpenDatabase(config.Database{
		Driver: "sqlite",
		URL:    path + params,
	}, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err, "cannot open sqlite database")

	require.NoError(t, client.Migrate(db), "cannot migrate database")

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
