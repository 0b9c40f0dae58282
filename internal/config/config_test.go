package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/inventory/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// given
	t.Chdir(t.TempDir())

	// when
	cfg, err := configloader.Load[*Config]("inventory", Defaults())

	// then
	require.NoError(t, err)
	assert.Equal(t, "₹", cfg.Inventory.Currency)
	assert.False(t, cfg.HTTPServer.Enabled)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Nats.Enabled)
	assert.Equal(t, "INVENTORY", cfg.Nats.Stream)
	assert.Equal(t, uint(3), cfg.Resilience.Retry.MaxAttempts)
	assert.Equal(t, uint32(5), cfg.Resilience.CircuitBreaker.ConsecutiveFailures)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	// given
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "inventory:\n  currency: \"$\"\nserver:\n  enabled: true\n  port: 9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("INVENTORY_LOG_LEVEL", "debug")

	// when
	cfg, err := configloader.Load[*Config]("inventory", Defaults())

	// then
	require.NoError(t, err)
	assert.Equal(t, "$", cfg.Inventory.Currency)
	assert.True(t, cfg.HTTPServer.Enabled)
	assert.Equal(t, 9090, cfg.HTTPServer.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesMultiWordKeys(t *testing.T) {
	// given
	t.Chdir(t.TempDir())
	t.Setenv("INVENTORY_SERVER_PORT", "9999")
	t.Setenv("INVENTORY_SERVER_MAXHEADERBYTES", "4096")
	t.Setenv("INVENTORY_SERVER_TIMEOUT_READHEADER", "7s")
	t.Setenv("INVENTORY_RESILIENCE_CIRCUITBREAKER_OPENTIMEOUT", "45s")

	// when
	cfg, err := configloader.Load[*Config]("inventory", Defaults())

	// then
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTPServer.Port)
	assert.Equal(t, 4096, cfg.HTTPServer.MaxHeaderBytes)
	assert.Equal(t, 7*time.Second, cfg.HTTPServer.Timeout.ReadHeader)
	assert.Equal(t, 45*time.Second, cfg.Resilience.CircuitBreaker.OpenTimeout)
}

func TestLoad_YamlOverridesMultiWordKeys(t *testing.T) {
	// given
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "server:\n  maxheaderbytes: 2048\n  timeout:\n    readheader: 3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	// when
	cfg, err := configloader.Load[*Config]("inventory", Defaults())

	// then
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.HTTPServer.MaxHeaderBytes)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.Timeout.ReadHeader)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad log level", env: map[string]string{"INVENTORY_LOG_LEVEL": "verbose"}},
		{name: "empty currency", env: map[string]string{"INVENTORY_INVENTORY_CURRENCY": " "}},
		{name: "zero shutdown timeout", env: map[string]string{"INVENTORY_SHUTDOWN_TIMEOUT": "0s"}},
		{name: "bad server port", env: map[string]string{"INVENTORY_SERVER_ENABLED": "true", "INVENTORY_SERVER_PORT": "70000"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			t.Chdir(t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// when
			_, err := configloader.Load[*Config]("inventory", Defaults())

			// then
			assert.Error(t, err)
		})
	}
}

func TestConfig_String(t *testing.T) {
	// given
	t.Chdir(t.TempDir())
	cfg, err := configloader.Load[*Config]("inventory", Defaults())
	require.NoError(t, err)

	// when
	s := cfg.String()

	// then
	assert.Contains(t, s, "--- Inventory ---")
	assert.Contains(t, s, "currency: ₹")
	assert.Contains(t, s, "--- Resilience ---")
}
