package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "")
	t.Setenv("TRIAGE_BATCH_CONCURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Triage.BatchConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.CacheTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TRIAGE_SENTIMENT_LEXICON_PATH", "/etc/grievance/lexicon.yaml")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "/etc/grievance/lexicon.yaml", cfg.Triage.SentimentLexiconPath)
	assert.Zero(t, cfg.Dashboard.CacheTTL())
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid REDIS_DB")
}

func TestGetEnvAsInt_FallbackOnGarbage(t *testing.T) {
	t.Setenv("TRIAGE_BATCH_CONCURRENCY", "many")
	assert.Equal(t, 4, getEnvAsInt("TRIAGE_BATCH_CONCURRENCY", 4))
}
