package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WARDEN_DB_PATH", filepath.Join(t.TempDir(), "warden.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 100, cfg.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 5*time.Minute, cfg.BlockDuration)
	assert.Empty(t, cfg.NotifyURLs)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WARDEN_DB_PATH", filepath.Join(t.TempDir(), "warden.db"))
	t.Setenv("WARDEN_ENV", "production")
	t.Setenv("WARDEN_MAX_REQUESTS", "25")
	t.Setenv("WARDEN_RATE_WINDOW", "30s")
	t.Setenv("WARDEN_USER_PERMISSIONS", "read, write ,")
	t.Setenv("WARDEN_NOTIFY_URLS", "discord://token@channel")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 25, cfg.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
	assert.Equal(t, []string{"read", "write"}, cfg.UserPermissions)
	assert.Equal(t, []string{"discord://token@channel"}, cfg.NotifyURLs)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("WARDEN_DB_PATH", filepath.Join(t.TempDir(), "warden.db"))
	t.Setenv("WARDEN_MAX_REQUESTS", "not-a-number")
	t.Setenv("WARDEN_RATE_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateWindow)
}

func TestGateConfig(t *testing.T) {
	cfg := Config{
		MaxRequests:     10,
		RateWindow:      time.Second,
		BlockDuration:   time.Minute,
		AdminUsername:   "root",
		AdminPassword:   "hunter2",
		UserPermissions: []string{"read"},
	}

	gc := cfg.GateConfig()
	assert.Equal(t, 10, gc.MaxRequests)
	assert.Equal(t, time.Second, gc.Window)
	assert.Equal(t, time.Minute, gc.BlockDuration)
	assert.Equal(t, "root", gc.AdminUsername)
	assert.Equal(t, []string{"read"}, gc.UserPermissions)
	assert.True(t, gc.Authentication.Enabled)
}
