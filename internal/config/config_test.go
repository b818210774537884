package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := newConfig(viper.New())

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("DATABASE_PATH", "/tmp/records.db")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("TASKS_ENABLED", "false")
	t.Setenv("AUTH_LOCKOUT_DURATION", "5m")

	cfg := newConfig(viper.New())

	assert.Equal(t, int32(9191), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/records.db", cfg.Database.Path)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.False(t, cfg.Tasks.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LockoutDuration)
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	})

	t.Run("does not override existing variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("HOST=10.0.0.1\nGIN_MODE=debug\n"), 0o600))

		t.Setenv("HOST", "127.0.0.1")
		t.Setenv("GIN_MODE", "")
		os.Unsetenv("GIN_MODE")

		loadEnvFile(path)
		cfg := newConfig(viper.New())

		assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
		assert.Equal(t, "debug", cfg.HTTP.GinMode)
		os.Unsetenv("GIN_MODE")
	})
}

func TestHTTPAddress(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", HTTP{Host: "127.0.0.1", Port: 8080}.Address())
}
