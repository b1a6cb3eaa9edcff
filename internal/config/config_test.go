package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "DB_PATH", "DB_DRIVER", "REDIS_ADDR", "GRPC_PORT",
		"GRPC_REFLECTION_ENABLED", "HTTP_PORT", "CACHE_TTL", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.False(t, cfg.GRPCReflectionEnabled)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("GRPC_REFLECTION_ENABLED", "true")

	cfg := LoadFromEnv()

	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort, "unparsable values fall back to the default")
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.GRPCReflectionEnabled)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RATE_LIMIT_PER_MINUTE=7\nAPP_ENV=production\n"), 0o600))
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	require.NoError(t, os.Unsetenv("RATE_LIMIT_PER_MINUTE"))
	t.Setenv("APP_ENV", "staging")

	cfg := Load(path)

	assert.Equal(t, 7, cfg.RateLimitPerMinute)
	assert.Equal(t, "staging", cfg.AppEnv, "the environment wins over the file")
}
