// Package config loads pacer configuration from an optional TOML file, a
// .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string `toml:"app_env"`
	LogLevel string `toml:"log_level"`

	// Database. An empty DatabaseURL selects the embedded SQLite store.
	DatabaseURL string `toml:"database_url"`
	SQLitePath  string `toml:"sqlite_path"`
	DBMaxConns  int    `toml:"db_max_conns"`

	// Cache
	CacheBackend           string        `toml:"cache_backend"`
	CacheTTL               time.Duration `toml:"cache_ttl"`
	CacheInvalidateOnWrite bool          `toml:"cache_invalidate_on_write"`
	RedisURL               string        `toml:"redis_url"`

	// RabbitMQ. Empty keeps event delivery in process.
	RabbitMQURL string `toml:"rabbitmq_url"`

	// Outbox
	OutboxPollInterval     time.Duration `toml:"outbox_poll_interval"`
	OutboxBatchSize        int           `toml:"outbox_batch_size"`
	OutboxMaxRetries       int           `toml:"outbox_max_retries"`
	OutboxRetentionDays    int           `toml:"outbox_retention_days"`
	OutboxCleanupInterval  time.Duration `toml:"outbox_cleanup_interval"`
	OutboxProcessorEnabled bool          `toml:"outbox_processor_enabled"`

	// Servers
	APIAddr          string `toml:"api_addr"`
	MCPAddr          string `toml:"mcp_addr"`
	MCPAuthToken     string `toml:"mcp_auth_token"`
	WorkerHealthAddr string `toml:"worker_health_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AppEnv:   "development",
		LogLevel: "info",

		DBMaxConns: 10,

		CacheBackend: CacheBackendMemory,
		CacheTTL:     30 * time.Second,
		RedisURL:     "redis://localhost:6379/0",

		OutboxPollInterval:     100 * time.Millisecond,
		OutboxBatchSize:        100,
		OutboxMaxRetries:       5,
		OutboxRetentionDays:    7,
		OutboxCleanupInterval:  24 * time.Hour,
		OutboxProcessorEnabled: true,

		APIAddr:          "127.0.0.1:8080",
		MCPAddr:          "127.0.0.1:8082",
		WorkerHealthAddr: "0.0.0.0:8081",
	}
}

// Bootstrap returns the defaults with the .env file and the logging
// variables applied. Commands log with it until Load has run.
func Bootstrap() *Config {
	_ = godotenv.Load()
	cfg := Default()
	applyLogEnv(cfg)
	return cfg
}

func applyLogEnv(cfg *Config) {
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

// Load builds the configuration. path names an optional TOML file; when
// empty, PACER_CONFIG is consulted. Environment variables override the file.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("PACER_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyLogEnv(cfg)

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = getEnv("PACER_SQLITE_PATH", cfg.SQLitePath)
	cfg.DBMaxConns = getIntEnv("PACER_DB_MAX_CONNS", cfg.DBMaxConns)

	cfg.CacheBackend = getEnv("PACER_CACHE_BACKEND", cfg.CacheBackend)
	cfg.CacheTTL = getDurationEnv("PACER_CACHE_TTL", cfg.CacheTTL)
	cfg.CacheInvalidateOnWrite = getBoolEnv("PACER_CACHE_INVALIDATE_ON_WRITE", cfg.CacheInvalidateOnWrite)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)

	cfg.OutboxPollInterval = getDurationEnv("OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = getIntEnv("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxRetries = getIntEnv("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)
	cfg.OutboxRetentionDays = getIntEnv("OUTBOX_RETENTION_DAYS", cfg.OutboxRetentionDays)
	cfg.OutboxCleanupInterval = getDurationEnv("OUTBOX_CLEANUP_INTERVAL", cfg.OutboxCleanupInterval)
	cfg.OutboxProcessorEnabled = getBoolEnv("OUTBOX_PROCESSOR_ENABLED", cfg.OutboxProcessorEnabled)

	cfg.APIAddr = getEnv("API_ADDR", cfg.APIAddr)
	cfg.MCPAddr = getEnv("MCP_ADDR", cfg.MCPAddr)
	cfg.MCPAuthToken = getEnv("MCP_AUTH_TOKEN", cfg.MCPAuthToken)
	cfg.WorkerHealthAddr = getEnv("WORKER_HEALTH_ADDR", cfg.WorkerHealthAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unusable settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.CacheBackend))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache ttl must not be negative"))
	}
	if c.OutboxBatchSize < 1 {
		errs = append(errs, errors.New("outbox batch size must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesSQLite reports whether the embedded store is selected.
func (c *Config) UsesSQLite() bool {
	return c.DatabaseURL == ""
}

// OutboxRetention returns the retention period of published messages.
func (c *Config) OutboxRetention() time.Duration {
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
