package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	// Optional cache for feed author lookups
	REDIS_ADDR     string
	REDIS_PASSWORD string

	// Directory holding the anonymous / fallback progress record
	LOCAL_STORE_PATH string

	// Access token issued by the identity provider. Only its subject claim
	// is read here; verification of credentials happens upstream.
	ACCESS_TOKEN string
	JWT_SECRET   string

	// Budget for the remote progress fetch before falling back to the
	// local record
	PROGRESS_TIMEOUT time.Duration

	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	progressTimeout := 6 * time.Second
	if msStr := os.Getenv("PROGRESS_TIMEOUT_MS"); msStr != "" {
		if ms, err := strconv.Atoi(msStr); err == nil && ms > 0 {
			progressTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),

		LOCAL_STORE_PATH: GetEnvOrDefault("LOCAL_STORE_PATH", defaultStatePath()),

		ACCESS_TOKEN: os.Getenv("ACCESS_TOKEN"),
		JWT_SECRET:   os.Getenv("JWT_SECRET"),

		PROGRESS_TIMEOUT: progressTimeout,

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// RemoteConfigured reports whether a remote backend was configured at all.
// Without it the whole system runs in local-only mode.
func (c *Config) RemoteConfigured() bool {
	return c.DB_HOST != "" && c.DB_NAME != ""
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".worksync"
	}
	return home + "/.worksync"
}
