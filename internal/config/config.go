package config

import (
	"os"
	"strconv"
	"time"

	"marquee/internal/cache"
	"marquee/internal/database"
	"marquee/internal/messaging"
	"marquee/internal/search"
)

// Config holds the full application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	Database      database.Config
	NATS          messaging.Config
	Valkey        cache.Config
	Elasticsearch search.Config
	Booking       BookingConfig
}

// BookingConfig carries the tunables of the booking engine
type BookingConfig struct {
	// SeatPrice is the fixed per-seat price in whole currency units.
	SeatPrice int64
	// ClaimLockTimeout bounds how long a commit may wait for the
	// per-show inventory lock before failing as retryable.
	ClaimLockTimeout time.Duration
	// SeatCacheTTL bounds the staleness window of the seat map cache.
	SeatCacheTTL time.Duration
	// MaxPaymentRefLen rejects oversized opaque payment references.
	MaxPaymentRefLen int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8081"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "marquee"),
			Password:           getEnv("DB_PASSWORD", "marquee123"),
			DBName:             getEnv("DB_NAME", "marquee"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "marquee"),
			ClientID:  getEnv("NATS_CLIENT_ID", "marquee-api"),
		},

		Valkey: cache.Config{
			Addr:         getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:     os.Getenv("VALKEY_PASSWORD"),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
		},

		Elasticsearch: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Index:      getEnv("ELASTICSEARCH_INDEX", "orders"),
			Username:   os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:   os.Getenv("ELASTICSEARCH_PASSWORD"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Booking: BookingConfig{
			SeatPrice:        int64(getEnvInt("SEAT_PRICE", 200)),
			ClaimLockTimeout: time.Duration(getEnvInt("CLAIM_LOCK_TIMEOUT_MS", 2000)) * time.Millisecond,
			SeatCacheTTL:     time.Duration(getEnvInt("SEAT_CACHE_TTL_SEC", 5)) * time.Second,
			MaxPaymentRefLen: getEnvInt("MAX_PAYMENT_REF_LEN", 128),
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
