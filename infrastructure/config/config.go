package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	minRSAKeyBits = 2048
)

type Config struct {
	StorageDriver string
	DatabaseURL   string
	ServerPort    string
	ServerHost    string
	Environment   string

	OperatorAuthEnabled bool
	JWTSecret           string
	AccessTokenTTL      time.Duration

	RedisURL                 string
	RateLimitEnabled         bool
	RateLimitSearchAttempts  int
	RateLimitSearchWindow    time.Duration
	RateLimitCreateAttempts  int
	RateLimitCreateWindow    time.Duration
	RateLimitMetricsAttempts int
	RateLimitBlockDuration   time.Duration
	TrustedProxies           []string

	RSAKeyBits            int
	KeyRotationMaxRetries int
	MetricsWindow         time.Duration
	AuditLogPageSize      int

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
	LogEnableRequestLog    bool

	// CORS configuration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
	ErrMissingJWTSecret     = errors.New("JWT_SECRET is required when operator auth is enabled")
	ErrOperatorAuthRequired = errors.New("OPERATOR_AUTH_ENABLED cannot be false in production")
	ErrInvalidStorageDriver = errors.New("STORAGE_DRIVER must be postgres or memory")
	ErrInvalidTokenTTL      = errors.New("invalid token TTL format")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrInvalidNumber        = errors.New("invalid number")
	ErrRSAKeyTooSmall       = fmt.Errorf("RSA_KEY_BITS must be at least %d", minRSAKeyBits)
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		StorageDriver:          strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:             getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment:            getEnvOrDefault("ENV", "development"),
		OperatorAuthEnabled:    getEnvOrDefaultBool("OPERATOR_AUTH_ENABLED", true),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:       getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		LogEnableRequestLog:    getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
		TrustedProxies:       parseAllowedOrigins(getEnvOrDefault("TRUSTED_PROXIES", "")),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	case StorageDriverMemory:
	default:
		return nil, ErrInvalidStorageDriver
	}

	if cfg.OperatorAuthEnabled && cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if !cfg.OperatorAuthEnabled && cfg.IsProduction() {
		return nil, ErrOperatorAuthRequired
	}

	accessTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "3600"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"RATE_LIMIT_SEARCH_ATTEMPTS", 60, &cfg.RateLimitSearchAttempts},
		{"RATE_LIMIT_CREATE_ATTEMPTS", 20, &cfg.RateLimitCreateAttempts},
		{"RATE_LIMIT_METRICS_ATTEMPTS", 120, &cfg.RateLimitMetricsAttempts},
		{"RSA_KEY_BITS", minRSAKeyBits, &cfg.RSAKeyBits},
		{"KEY_ROTATION_MAX_RETRIES", 3, &cfg.KeyRotationMaxRetries},
		{"AUDIT_LOG_PAGE_SIZE", 100, &cfg.AuditLogPageSize},
	}
	for _, v := range ints {
		n, err := getEnvInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dest = n
	}
	if cfg.RSAKeyBits < minRSAKeyBits {
		return nil, ErrRSAKeyTooSmall
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"RATE_LIMIT_SEARCH_WINDOW", time.Minute, &cfg.RateLimitSearchWindow},
		{"RATE_LIMIT_CREATE_WINDOW", time.Hour, &cfg.RateLimitCreateWindow},
		{"RATE_LIMIT_BLOCK_DURATION", 15 * time.Minute, &cfg.RateLimitBlockDuration},
		{"METRICS_WINDOW", 24 * time.Hour, &cfg.MetricsWindow},
	}
	for _, v := range durations {
		d, err := getEnvDuration(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dest = d
	}

	return cfg, nil
}

func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvInt fails on unparsable or negative values instead of silently
// falling back, since these settings bound security behavior.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, value)
	}
	return parsed, nil
}

// getEnvDuration accepts plain seconds or a Go duration string.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidDuration, key, value)
	}
	return d, nil
}

func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// parseAllowedOrigins splits a comma separated list, dropping blanks.
func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
