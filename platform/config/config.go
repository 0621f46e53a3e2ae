// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseMaxConns() int
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	IsAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides settings for the per-IP API rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// KVConfig provides settings for the key-value store that backs favorites,
// search history and page visit counters.
type KVConfig interface {
	GetRedisURL() string
	GetKVKeyPrefix() string
	IsRedisEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketExports() string
	IsMinIOEnabled() bool
}

// QueueConfig provides the asynq settings for deferred export archival.
type QueueConfig interface {
	GetRedisURL() string
	IsRedisEnabled() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SearchConfig provides tuning for the grid and navigation search.
type SearchConfig interface {
	GetSearchDebounce() time.Duration
	GetNavBlurGrace() time.Duration
	GetNavHistoryLimit() int
	GetNavResultLimit() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	DatabaseMaxConns   int
	JWTAccessSecret    string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	RateLimitRPS       float64
	RateLimitBurst     int
	RedisURL           string
	KVKeyPrefix        string
	AsynqQueueName     string
	AsynqConcurrency   int
	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinioBucketExports string
	SearchDebounce     time.Duration
	NavBlurGrace       time.Duration
	NavHistoryLimit    int
	NavResultLimit     int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int { return c.DatabaseMaxConns }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsAuthEnabled() bool        { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// KVConfig implementation
func (c *Config) GetRedisURL() string    { return c.RedisURL }
func (c *Config) GetKVKeyPrefix() string { return c.KVKeyPrefix }
func (c *Config) IsRedisEnabled() bool   { return c.RedisURL != "" }

// QueueConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketExports() string { return c.MinioBucketExports }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// SearchConfig implementation
func (c *Config) GetSearchDebounce() time.Duration { return c.SearchDebounce }
func (c *Config) GetNavBlurGrace() time.Duration   { return c.NavBlurGrace }
func (c *Config) GetNavHistoryLimit() int          { return c.NavHistoryLimit }
func (c *Config) GetNavResultLimit() int           { return c.NavResultLimit }

// maxNavHistoryLimit is the most search terms the navigation history keeps.
const maxNavHistoryLimit = 10

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := LoadWithoutDatabase()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// LoadWithoutDatabase reads configuration without requiring DATABASE_URL.
// The CLI uses it for commands that never touch PostgreSQL.
func LoadWithoutDatabase() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:   mustInt(getEnv("DB_MAX_CONNS", "10")),
		JWTAccessSecret:    getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:       mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:     mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:           getEnv("REDIS_URL", ""),
		KVKeyPrefix:        getEnv("KV_KEY_PREFIX", "serveon:"),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "exports"),
		AsynqConcurrency:   mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketExports: getEnv("MINIO_BUCKET_EXPORTS", "serveon-exports"),
		SearchDebounce:     mustDuration(getEnv("SEARCH_DEBOUNCE", "300ms")),
		NavBlurGrace:       mustDuration(getEnv("NAV_BLUR_GRACE", "150ms")),
		NavHistoryLimit:    mustInt(getEnv("NAV_HISTORY_LIMIT", "10")),
		NavResultLimit:     mustInt(getEnv("NAV_RESULT_LIMIT", "10")),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.DatabaseMaxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.NavHistoryLimit < 1 || cfg.NavResultLimit < 1 {
		return nil, fmt.Errorf("NAV_HISTORY_LIMIT and NAV_RESULT_LIMIT must be positive")
	}
	if cfg.NavHistoryLimit > maxNavHistoryLimit {
		return nil, fmt.Errorf("NAV_HISTORY_LIMIT cannot exceed %d", maxNavHistoryLimit)
	}
	if cfg.IsMinIOEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
