package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, "supplier_product", cfg.Accounting.PurchaseDedupKey)
	assert.Equal(t, 260000, cfg.Credential.Iterations)
	assert.Equal(t, 5*time.Second, cfg.Lock.Timeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "admin", cfg.Bootstrap.AdminUsername)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BIZ_APP_PORT", "9090")
	t.Setenv("BIZ_ACCOUNTING_PURCHASE_DEDUP_KEY", "purchase_order")
	t.Setenv("BIZ_LOCK_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "purchase_order", cfg.Accounting.PurchaseDedupKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Lock.Timeout)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Run("unknown dedup strategy", func(t *testing.T) {
		t.Setenv("BIZ_ACCOUNTING_PURCHASE_DEDUP_KEY", "by_date")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("weak iteration count", func(t *testing.T) {
		t.Setenv("BIZ_CREDENTIAL_ITERATIONS", "1000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production without secret", func(t *testing.T) {
		t.Setenv("BIZ_APP_ENV", "production")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("BIZ_DATABASE_DRIVER", "mysql")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "biz", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/biz?sslmode=disable", pg.ConnectionString())

	lite := DatabaseConfig{Driver: "sqlite", Name: "biz"}
	assert.Equal(t, "biz.db", lite.ConnectionString())

	explicit := DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"}
	assert.Equal(t, "file::memory:", explicit.ConnectionString())
}
