// Package config loads pipeline configuration from the environment (and an
// optional .env file), with one typed field and a documented default per
// setting.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all pipeline configuration values.
type Config struct {
	// Server
	Addr            string
	Env             string
	GracefulTimeout time.Duration

	// Upstream game-data API
	RiotAPIKey     string
	RateLimitCalls int
	RateLimitPeriod time.Duration

	// ClickHouse
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	StoreWorkers       int

	// Redis (optional telemetry sink)
	RedisURL           string
	TelemetryChannel   string

	// Recurring runner
	CycleIntervalSeconds int
	MinBackoffSeconds    int
	MaxBackoffSeconds    int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables and an optional .env
// file in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	gracefulSec := getEnvInt("PIPELINE_GRACEFUL_TIMEOUT_SEC", 15)

	return &Config{
		Addr:            getEnv("PIPELINE_ADDR", ":8080"),
		Env:             getEnv("ENV", "development"),
		GracefulTimeout: time.Duration(gracefulSec) * time.Second,

		RiotAPIKey:      getEnv("RIOT_API_KEY", ""),
		RateLimitCalls:  getEnvInt("RATE_LIMIT_CALLS", 100),
		RateLimitPeriod: time.Duration(getEnvInt("RATE_LIMIT_PERIOD_SEC", 120)) * time.Second,

		ClickHouseHost:     getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickHousePort:     getEnvInt("CLICKHOUSE_PORT", 9000),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "ladder"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		StoreWorkers:       getEnvInt("STORE_WORKERS", 2),

		RedisURL:         getEnv("REDIS_URL", "redis://redis:6379"),
		TelemetryChannel: getEnv("TELEMETRY_CHANNEL", "ladder-pipeline:rate"),

		CycleIntervalSeconds: getEnvInt("CYCLE_INTERVAL_SEC", 21600),
		MinBackoffSeconds:    getEnvInt("MIN_BACKOFF_SEC", 60),
		MaxBackoffSeconds:    getEnvInt("MAX_BACKOFF_SEC", 900),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
