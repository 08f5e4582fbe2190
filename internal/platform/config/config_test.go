package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.Postgres.URL)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "rsu.audit", cfg.Kafka.AuditTopic)
	assert.Equal(t, 4, cfg.Scoring.BatchWorkers)
	assert.Equal(t, 500, cfg.Scoring.BatchMaxSize)
	assert.Equal(t, 5*time.Minute, cfg.Analytics.CacheTTL)
	assert.True(t, cfg.LogJSON)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 600, cfg.RateLimit.ReadsPerMinute)
	assert.Equal(t, 120, cfg.RateLimit.WritesPerMinute)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("RSU_ADDR", ":9090")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, kafka-2:9092 ,kafka-1:9092")
	t.Setenv("SCORING_BATCH_WORKERS", "8")
	t.Setenv("SCORING_BATCH_MAX_SIZE", "2000")
	t.Setenv("ANALYTICS_CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_WRITES_PER_MINUTE", "30")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Scoring.BatchWorkers)
	assert.Equal(t, 2000, cfg.Scoring.BatchMaxSize)
	assert.Equal(t, 30*time.Second, cfg.Analytics.CacheTTL)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.WritesPerMinute)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("ANALYTICS_CACHE_TTL", "soon")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANALYTICS_CACHE_TTL")
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Setenv("SCORING_BATCH_WORKERS", "0")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("zero batch size", func(t *testing.T) {
		t.Setenv("SCORING_BATCH_MAX_SIZE", "0")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SCORING_BATCH_MAX_SIZE")
	})

	t.Run("malformed bool", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "sometimes")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_ENABLED")
	})

	t.Run("zero rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_READS_PER_MINUTE", "0")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
