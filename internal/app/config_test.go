package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("CSRF_SECRET", "test-csrf-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.False(t, cfg.AuthzDemoMode)
	assert.Equal(t, 15*time.Second, cfg.HealthProbeInterval)
	assert.Equal(t, 5*time.Minute, cfg.PermissionCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsDemoModeInProduction(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("CSRF_SECRET", "test-csrf-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTHZ_DEMO_MODE", "true")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDemoModeOutsideProduction(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("CSRF_SECRET", "test-csrf-secret")
	t.Setenv("AUTHZ_DEMO_MODE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AuthzDemoMode)
}
