package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.ScrapeDeadline)
	assert.False(t, cfg.Server.Constrained)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, 1366, cfg.Browser.WindowWidth)
	assert.True(t, cfg.Sources.IncludeDiagnostics)
	assert.False(t, cfg.Sources.EnableComputrabajo)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEPLOY_MODE", "constrained")
	t.Setenv("INFOJOBS_CLIENT_ID", "ij-id")
	t.Setenv("INFOJOBS_CLIENT_SECRET", "ij-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("EXCLUDE_DIAGNOSTICS", "true")
	t.Setenv("ENABLE_COMPUTRABAJO", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.Constrained)
	assert.True(t, cfg.Sources.InfoJobs.Configured())
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)
	assert.False(t, cfg.Sources.IncludeDiagnostics)
	assert.True(t, cfg.Sources.EnableComputrabajo)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  constrained: true
cache:
  capacity: 10
sources:
  computrabajo: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Server.Constrained)
	assert.Equal(t, 10, cfg.Cache.Capacity)
	assert.True(t, cfg.Sources.EnableComputrabajo)
}

func TestLoadMissingYAMLFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
}

func TestCredentialsConfigured(t *testing.T) {
	assert.False(t, Credentials{}.Configured())
	assert.False(t, Credentials{ClientID: "id"}.Configured())
	assert.False(t, Credentials{ClientID: "your_client_id", ClientSecret: "x"}.Configured())
	assert.True(t, Credentials{ClientID: "id", ClientSecret: "secret"}.Configured())
}
