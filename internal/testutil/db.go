package testutil

import (
	"context"
	"testing"
	"time"

	"bizledger/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory sqlite database private to the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a distinct database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// FixedClock returns a clock frozen at the given calendar date (noon UTC)
func FixedClock(date string) func() time.Time {
	ts, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	ts = ts.Add(12 * time.Hour)
	return func() time.Time { return ts }
}

// Ctx returns a context cancelled when the test finishes
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
