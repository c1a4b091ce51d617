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

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.StockTTL)
	assert.False(t, cfg.Refund.ReverseCreditTenders)
	assert.Equal(t, "caja", cfg.Cash.Accounts["cash"])
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "Salón", cfg.Receipt.BusinessName)
	assert.Empty(t, cfg.Auth.AdminEmail)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Empty(t, cfg.App.LogLevels)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/salon-test.db")
	t.Setenv("STOCK_CACHE_TTL", "30s")
	t.Setenv("REFUND_REVERSE_CREDIT", "true")
	t.Setenv("CASH_ACCOUNT_PIX", "banco-pix")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_FORCE_IPV4", "true")
	t.Setenv("LOG_LEVELS", "checkout=debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/salon-test.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.Redis.StockTTL)
	assert.True(t, cfg.Refund.ReverseCreditTenders)
	assert.Equal(t, "banco-pix", cfg.Cash.Accounts["pix"])
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "checkout=debug", cfg.App.LogLevels)
}

func TestLoad_TTLDeCacheNoPositivo(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STOCK_CACHE_TTL", "0s")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STOCK_CACHE_TTL", "1m")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Redis.StockTTL)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AdminConPasswordCorta(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@salon.com")
	t.Setenv("ADMIN_PASSWORD", "corta")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ADMIN_PASSWORD", "suficiente123")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "admin@salon.com", cfg.Auth.AdminEmail)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "salon", Password: "p@ss", DBName: "salon", SSLMode: "disable"}
	assert.Equal(t, "postgres://salon:p%40ss@db:5432/salon?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
