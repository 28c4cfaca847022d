package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	memoryEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "localhost:8080", cfg.Address())
	assert.True(t, cfg.OperatorAuthEnabled)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 2048, cfg.RSAKeyBits)
	assert.Equal(t, 3, cfg.KeyRotationMaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.MetricsWindow)
	assert.Equal(t, 100, cfg.AuditLogPageSize)
	assert.Equal(t, 60, cfg.RateLimitSearchAttempts)
	assert.Equal(t, time.Minute, cfg.RateLimitSearchWindow)
	assert.Equal(t, 120, cfg.RateLimitMetricsAttempts)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	memoryEnv(t)
	t.Setenv("RSA_KEY_BITS", "3072")
	t.Setenv("METRICS_WINDOW", "1h")
	t.Setenv("RATE_LIMIT_SEARCH_WINDOW", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3072, cfg.RSAKeyBits)
	assert.Equal(t, time.Hour, cfg.MetricsWindow)
	assert.Equal(t, 30*time.Second, cfg.RateLimitSearchWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.TrustedProxies)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": "", "JWT_SECRET": "x"}, ErrMissingDatabaseURL},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite", "JWT_SECRET": "x"}, ErrInvalidStorageDriver},
		{"missing jwt secret", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": ""}, ErrMissingJWTSecret},
		{"small rsa key", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "x", "RSA_KEY_BITS": "1024"}, ErrRSAKeyTooSmall},
		{"bad number", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "x", "AUDIT_LOG_PAGE_SIZE": "lots"}, ErrInvalidNumber},
		{"bad duration", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "x", "METRICS_WINDOW": "soon"}, ErrInvalidDuration},
		{"auth disabled in production", map[string]string{"STORAGE_DRIVER": "memory", "ENV": "production", "OPERATOR_AUTH_ENABLED": "false"}, ErrOperatorAuthRequired},
		{"bad ttl", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET": "x", "JWT_ACCESS_TOKEN_TTL": "1h"}, ErrInvalidTokenTTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_AuthDisabledNeedsNoSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OPERATOR_AUTH_ENABLED", "false")

	_, err := Load()
	assert.NoError(t, err)
}
