package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("CSRF_ENABLED", "")
	t.Setenv("CSRF_TIME_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "cookie", cfg.SessionStore)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, time.Hour, cfg.CSRFTimeLimit)
	assert.False(t, cfg.SessionCookieSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CSRF_ENABLED", "false")
	t.Setenv("CSRF_TIME_LIMIT", "15m")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, 15*time.Minute, cfg.CSRFTimeLimit)
	assert.True(t, cfg.SessionCookieSecure)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestValidate(t *testing.T) {
	base := Config{
		DBDriver:      "sqlite",
		SessionStore:  "cookie",
		SessionSecret: "s3cret",
		GinMode:       "debug",
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := base
		cfg.DBDriver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown session store", func(t *testing.T) {
		cfg := base
		cfg.SessionStore = "memcached"
		assert.Error(t, cfg.Validate())
	})

	t.Run("release requires a real secret", func(t *testing.T) {
		cfg := base
		cfg.GinMode = "release"
		cfg.SessionSecret = defaultSessionSecret
		assert.Error(t, cfg.Validate())
	})
}
