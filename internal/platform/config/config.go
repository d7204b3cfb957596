// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures everything cmd/server needs to wire dependencies.
type Server struct {
	Addr string

	// MinimumAge is the default legal purchase age. Call sites may override
	// it per product category.
	MinimumAge int

	// VerificationTTL bounds how long an age verification record stays valid.
	VerificationTTL time.Duration

	// JWTSigningKey signs age-verified session tokens.
	JWTSigningKey string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	// AdminUser and AdminPasswordHash guard the compliance-log endpoints.
	// An empty hash disables them.
	AdminUser         string
	AdminPasswordHash string
}

// RedisConfig holds connection settings for the verification-record store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the catalog/audit database DSN. Empty means in-memory
// stores.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig holds broker addresses for the compliance audit stream. Empty
// means the audit trail stays local.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string

	// ConsumerGroup identifies the archiver that drains the audit topic
	// into Postgres. Only cmd/auditconsumer uses it.
	ConsumerGroup string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("BOTILLERIA_ADDR", ":8080"),
		MinimumAge:      envInt("BOTILLERIA_MINIMUM_AGE", 18),
		VerificationTTL: envDuration("BOTILLERIA_VERIFICATION_TTL", 24*time.Hour),
		JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			AuditTopic:    envOr("KAFKA_AUDIT_TOPIC", "botilleria.audit.compliance"),
			ConsumerGroup: envOr("KAFKA_CONSUMER_GROUP", "botilleria-audit-archiver"),
		},
		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitAndTrim(brokers)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
