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
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, 8000, s.Port)
	assert.False(t, s.Debug)
	assert.Equal(t, "/api", s.APIPrefix)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, s.CORSOrigins)
	assert.Equal(t, 120*time.Second, s.RequestTimeout)
	assert.Equal(t, 15*time.Second, s.ShutdownTimeout)
	assert.Equal(t, 2, s.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, s.RetryBaseDelay)
	assert.Equal(t, 8*time.Second, s.RetryMaxDelay)
	assert.Zero(t, s.RateLimit)
	assert.Equal(t, 1, s.RateBurst)
	assert.Equal(t, "0.0.0.0:8000", s.Addr())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("LINGOPIPE_PORT", "9100")
	t.Setenv("LINGOPIPE_DEBUG", "true")
	t.Setenv("LINGOPIPE_REQUEST_TIMEOUT", "30s")

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9100, s.Port)
	assert.True(t, s.Debug)
	assert.Equal(t, 30*time.Second, s.RequestTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"host: 127.0.0.1\nport: 8080\napi_prefix: /v1\nmax_retries: 5\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", s.Host)
	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, "/v1", s.APIPrefix)
	assert.Equal(t, 5, s.MaxRetries)
	assert.Equal(t, "127.0.0.1:8080", s.Addr())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("LINGOPIPE_PORT", "70000")
		_, err := Load("")
		assert.Error(t, err)
	})
}
