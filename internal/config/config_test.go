package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "VENDING_TIMEOUT", "ACCESS_TOKEN_TTL", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.VendingTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("VENDING_TIMEOUT", "750ms")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("AUTH_RATE_LIMIT", "0")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 750*time.Millisecond, cfg.VendingTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 50, cfg.DB.MaxOpenConns)
	assert.Equal(t, 0, cfg.AuthRateLimit)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.True(t, IsProduction())

	t.Setenv("ENV", "staging")
	assert.False(t, IsProduction())
}
