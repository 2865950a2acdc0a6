package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, DefaultCatalogURL, cfg.CatalogURL)
	assert.Equal(t, 24*time.Hour, cfg.CatalogTTL)
	assert.Equal(t, StoreFile, cfg.CatalogStore)
	assert.Equal(t, filepath.Join(os.TempDir(), "systembolaget_products.json"), cfg.CatalogCachePath)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.JWTSecret)
	assert.True(t, cfg.IsDevelopment())

	host, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, host, cfg.InstanceID)
}

func TestLoad_InstanceIDStableAcrossLoads(t *testing.T) {
	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, first.InstanceID)
	assert.Equal(t, first.InstanceID, second.InstanceID)

	t.Setenv("INSTANCE_ID", "tracker-0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tracker-0", cfg.InstanceID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CATALOG_CACHE_PATH", "/var/cache/catalog.json")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 2*time.Hour, cfg.CatalogTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "/var/cache/catalog.json", cfg.CatalogCachePath)
	assert.False(t, cfg.IsDevelopment())
	assert.False(t, cfg.Database().LogQueries)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		envs map[string]string
		msg  string
	}{
		{"port", map[string]string{"HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"driver", map[string]string{"DB_DRIVER": "mysql"}, "unsupported DB_DRIVER"},
		{"store", map[string]string{"CATALOG_STORE": "s3"}, "unsupported CATALOG_STORE"},
		{"redis store without addr", map[string]string{"CATALOG_STORE": "redis"}, "requires REDIS_ADDR"},
		{"ttl", map[string]string{"CATALOG_TTL": "-1h"}, "CATALOG_TTL must be positive"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "2"}, "OTEL_SAMPLE_RATE"},
		{"rate limit", map[string]string{"RATE_LIMIT_REQUESTS": "0"}, "RATE_LIMIT_REQUESTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_PORT=7070\nJWT_SECRET=from-file\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("JWT_SECRET")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}
