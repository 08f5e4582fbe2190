package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	dedupe "rsu/pkg/platform/strings"
)

// Server is the process configuration. Every field has a development default.
type Server struct {
	Addr     string
	LogLevel string
	LogJSON  bool

	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	Scoring   ScoringConfig
	Analytics AnalyticsConfig
	RateLimit RateLimitConfig
}

// PostgresConfig selects durable storage. Empty URL runs with in-memory stores.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	TxTimeout       time.Duration
}

// RedisConfig configures the analytics cache and token revocation list.
// Empty URL disables both.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit relay. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	AuditTopic    string
	RelayInterval time.Duration
	RelayBatch    int
}

// AuthConfig configures operator bearer tokens.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration
}

// ScoringConfig tunes batch scoring.
type ScoringConfig struct {
	BatchWorkers int
	BatchMaxSize int
}

// AnalyticsConfig tunes dashboard caching.
type AnalyticsConfig struct {
	CacheTTL time.Duration
}

// RateLimitConfig sets per-operator request budgets on /api/v1.
type RateLimitConfig struct {
	Enabled         bool
	ReadsPerMinute  int
	WritesPerMinute int
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	var errs []error
	r := reader{errs: &errs}

	cfg := Server{
		Addr:     r.str("RSU_ADDR", ":8080"),
		LogLevel: r.str("LOG_LEVEL", "info"),
		LogJSON:  r.str("LOG_FORMAT", "json") != "text",
		Postgres: PostgresConfig{
			URL:             r.str("DATABASE_URL", ""),
			MaxOpenConns:    r.int("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    r.int("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: r.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			TxTimeout:       r.duration("DATABASE_TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          r.str("REDIS_URL", ""),
			PoolSize:     r.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       r.list("KAFKA_BROKERS"),
			AuditTopic:    r.str("KAFKA_AUDIT_TOPIC", "rsu.audit"),
			RelayInterval: r.duration("KAFKA_RELAY_INTERVAL", 2*time.Second),
			RelayBatch:    r.int("KAFKA_RELAY_BATCH", 100),
		},
		Auth: AuthConfig{
			JWTSigningKey: r.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     r.str("JWT_ISSUER", "rsu"),
			JWTAudience:   r.str("JWT_AUDIENCE", "rsu-api"),
			TokenTTL:      r.duration("JWT_TOKEN_TTL", 8*time.Hour),
		},
		Scoring: ScoringConfig{
			BatchWorkers: r.int("SCORING_BATCH_WORKERS", 4),
			BatchMaxSize: r.int("SCORING_BATCH_MAX_SIZE", 500),
		},
		Analytics: AnalyticsConfig{
			CacheTTL: r.duration("ANALYTICS_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled:         r.bool("RATE_LIMIT_ENABLED", true),
			ReadsPerMinute:  r.int("RATE_LIMIT_READS_PER_MINUTE", 600),
			WritesPerMinute: r.int("RATE_LIMIT_WRITES_PER_MINUTE", 120),
		},
	}

	if cfg.Scoring.BatchWorkers < 1 {
		errs = append(errs, fmt.Errorf("SCORING_BATCH_WORKERS must be at least 1"))
	}
	if cfg.Scoring.BatchMaxSize < 1 {
		errs = append(errs, fmt.Errorf("SCORING_BATCH_MAX_SIZE must be at least 1"))
	}
	if cfg.RateLimit.ReadsPerMinute < 1 || cfg.RateLimit.WritesPerMinute < 1 {
		errs = append(errs, fmt.Errorf("rate limits must be at least 1 request per minute"))
	}
	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %w", errs[0])
	}
	return cfg, nil
}

type reader struct {
	errs *[]error
}

func (r reader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (r reader) int(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r reader) bool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (r reader) duration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r reader) list(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	return dedupe.DedupeAndTrim(strings.Split(v, ","))
}
