package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CASHFLOW_CONFIG", "PORT", "API_BASE_URL", "REQUEST_TIMEOUT", "SESSION_DB_PATH",
	"SESSION_TTL", "LABEL_CACHE_TTL", "STATS_CACHE_TTL", "STATS_CACHE_SIZE",
	"OPERATOR_WORKERS", "DAILY_WINDOW", "MONTHLY_WINDOW", "COUNT_TRANSACTIONS", "LOG_LEVEL",
}

// clearEnv isolates a test from the developer's environment and any .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestProcessEnvironmentVariables_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ProcessEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "9446", cfg.Port)
	assert.Equal(t, "https://open-api.delcom.org/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 7, cfg.DailyWindow)
	assert.Equal(t, 6, cfg.MonthlyWindow)
	assert.True(t, cfg.CountTransactions)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestProcessEnvironmentVariables_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("API_BASE_URL", "http://localhost:3000/api/v1")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DAILY_WINDOW", "40")
	t.Setenv("MONTHLY_WINDOW", "12")
	t.Setenv("COUNT_TRANSACTIONS", "false")

	cfg, err := ProcessEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 40, cfg.DailyWindow)
	assert.Equal(t, 12, cfg.MonthlyWindow)
	assert.False(t, cfg.CountTransactions)
}

func TestProcessEnvironmentVariables_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nlog_level: debug\nstats_cache_size: 8\n"), 0o644))
	t.Setenv("CASHFLOW_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := ProcessEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 8, cfg.StatsCacheSize)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestProcessEnvironmentVariables_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("OPERATOR_WORKERS=5\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("OPERATOR_WORKERS") })
	require.NoError(t, os.Unsetenv("OPERATOR_WORKERS"))

	cfg, err := ProcessEnvironmentVariables()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.OperatorWorkers)
}

func TestProcessEnvironmentVariables_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "PORT", value: "http"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "bad duration", key: "REQUEST_TIMEOUT", value: "soon"},
		{name: "bad int", key: "DAILY_WINDOW", value: "seven"},
		{name: "zero window", key: "MONTHLY_WINDOW", value: "0"},
		{name: "bad bool", key: "COUNT_TRANSACTIONS", value: "maybe"},
		{name: "bad url", key: "API_BASE_URL", value: "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := ProcessEnvironmentVariables()
			assert.Error(t, err)
		})
	}
}

func TestProcessEnvironmentVariables_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CASHFLOW_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := ProcessEnvironmentVariables()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
