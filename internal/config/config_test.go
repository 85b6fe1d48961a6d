package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_DRIVER", "SESSION_TTL", "ALLOW_NEGATIVE_BALANCE", "ADMIN_USERNAME", "REDIS_DB"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.AllowNegativeBalance)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ALLOW_NEGATIVE_BALANCE", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_USER", "wallet")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "walletdb")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.AllowNegativeBalance)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "wallet:secret@tcp(db:3307)/walletdb?parseTime=true", cfg.DSN())
}

func TestGetDurationRejectsNonPositive(t *testing.T) {
	t.Setenv("SESSION_SWEEP_PERIOD", "-1s")
	assert.Equal(t, time.Hour, getDuration("SESSION_SWEEP_PERIOD", time.Hour))
}

func TestValidateSessionSecret(t *testing.T) {
	t.Run("default secret allowed in development", func(t *testing.T) {
		t.Setenv("IS_PROD", "false")
		t.Setenv("SESSION_SECRET", "")
		require.NoError(t, LoadConfig().Validate())
	})

	t.Run("default secret refused in production", func(t *testing.T) {
		t.Setenv("IS_PROD", "true")
		t.Setenv("SESSION_SECRET", "")
		assert.ErrorIs(t, LoadConfig().Validate(), ErrDefaultSessionSecret)
	})

	t.Run("explicit secret accepted in production", func(t *testing.T) {
		t.Setenv("IS_PROD", "true")
		t.Setenv("SESSION_SECRET", "0123456789abcdef")
		require.NoError(t, LoadConfig().Validate())
	})
}
