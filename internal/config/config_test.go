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
	t.Setenv("EXCHANGE_RATE_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, "https://api.frankfurter.app", cfg.Frankfurter.URL)
	assert.Equal(t, "https://v6.exchangerate-api.com/v6", cfg.ExchangeRate.URL)
	assert.Equal(t, 10*time.Second, cfg.ExchangeRate.Timeout)
	assert.Equal(t, "", cfg.ExchangeRate.APIKey, "missing key is not a load error")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("EXCHANGE_RATE_API_KEY", "secret")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "secret", cfg.ExchangeRate.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Frankfurter.Timeout)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoadDotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FRANKFURTER_URL=http://localhost:1234\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FRANKFURTER_URL") })

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1234", cfg.Frankfurter.URL)
}

func TestRedacted(t *testing.T) {
	cfg := Config{ExchangeRate: ExchangeRate{APIKey: "secret"}}

	assert.Equal(t, "***", cfg.Redacted().ExchangeRate.APIKey)
	assert.Equal(t, "secret", cfg.ExchangeRate.APIKey)
}

func TestProviderTimeoutCanBeDisabled(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Zero(t, cfg.Frankfurter.Timeout)
	assert.Zero(t, cfg.ExchangeRate.Timeout)
}
