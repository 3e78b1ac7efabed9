// Package ledgertest provides in-memory ledger stores for tests.
package ledgertest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/db"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
)

// NewDB opens a migrated in-memory sqlite database closed at test cleanup.
// A single connection keeps the database alive and serialises transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

// New returns a GormLedger over a fresh in-memory database with a fast
// retry policy.
func New(t testing.TB) (*ledger.GormLedger, *gorm.DB) {
	t.Helper()
	conn := NewDB(t)
	return ledger.NewGormLedger(conn, ledger.WithRetryPolicy(1, time.Millisecond)), conn
}

// Close closes the underlying connection so that further calls fail
func Close(t testing.TB, conn *gorm.DB) {
	t.Helper()
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
