package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, dashboard.DefaultKey, cfg.Storage.Key)
	assert.Equal(t, time.Minute, cfg.Dashboard.TickInterval)
	assert.Equal(t, dashboard.DefaultIntervals, cfg.Dashboard.Intervals())
	assert.Equal(t, 5*time.Second, cfg.Feeds.MarketInterval)

	params := cfg.Calculator.Params()
	assert.True(t, params.DailyRate.Equal(decimal.RequireFromString("0.03")))
	assert.True(t, params.FeeRate.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, params.Minimum.Equal(decimal.NewFromInt(30)))
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
http_addr: ":9090"
debug_logging: true
calculator:
  daily_rate: 0.02
  include_year: true
dashboard:
  user_interval: 10m
storage:
  backend: memory
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.True(t, cfg.DebugLogging)
	assert.True(t, cfg.Calculator.IncludeYear)
	assert.Equal(t, 0.02, cfg.Calculator.DailyRate)
	assert.Equal(t, 0.1, cfg.Calculator.FeeRate, "unset keys keep defaults")
	assert.Equal(t, 10*time.Minute, cfg.Dashboard.UserInterval)
	assert.Equal(t, 2*time.Hour, cfg.Dashboard.ProfitInterval)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ROGUE_RUNNER_HTTP_ADDR", ":7070")
	t.Setenv("ROGUE_RUNNER_STORAGE_BACKEND", "redis")
	t.Setenv("ROGUE_RUNNER_STORAGE_REDIS_ADDR", "cache:6379")
	t.Setenv("ROGUE_RUNNER_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"unknown backend":   "storage: {backend: sqlite}\n",
		"postgres no url":   "storage: {backend: postgres}\n",
		"postgres bad url":  "storage: {backend: postgres, postgres_url: 'mysql://x'}\n",
		"fee over one":      "calculator: {fee_rate: 1.5}\n",
		"zero minimum":      "calculator: {minimum: 0}\n",
		"negative interval": "dashboard: {tick_interval: -1s}\n",
		"empty key":         "storage: {key: ''}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestPostgresBackend(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.json",
		`{"storage": {"backend": "postgres", "postgres_url": "postgres://user:pw@db:5432/site"}}`))
	require.NoError(t, err)
	assert.Equal(t, "postgres://user:pw@db:5432/site", cfg.Storage.PostgresURL)
}

func TestMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")), "missing file is fine")

	path := writeFile(t, ".env", "ROGUE_RUNNER_TEST_DOTENV=loaded\n")
	t.Setenv("ROGUE_RUNNER_TEST_DOTENV", "")
	os.Unsetenv("ROGUE_RUNNER_TEST_DOTENV")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("ROGUE_RUNNER_TEST_DOTENV"))
}
