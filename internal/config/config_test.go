package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, 100, cfg.Server.RateLimit.MaxRequests)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, "0 3 * * *", cfg.Archive.Schedule)
	assert.Equal(t, 30, cfg.Archive.RetentionDays)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SPORTSPREDICT_PRIMARY.ENV", "production")
	t.Setenv("SPORTSPREDICT_SERVER.PORT", "9090")
	t.Setenv("SPORTSPREDICT_SERVER.CORS_ALLOWED_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("SPORTSPREDICT_SERVER.RATE_LIMIT.WINDOW", "1m")
	t.Setenv("SPORTSPREDICT_SERVER.RATE_LIMIT.MAX_REQUESTS", "5")
	t.Setenv("SPORTSPREDICT_DATABASE.MIN_CONNS", "1")
	t.Setenv("SPORTSPREDICT_DATABASE.MAX_CONNS", "4")
	t.Setenv("SPORTSPREDICT_DATABASE.QUERY_TIMEOUT", "80ms")
	t.Setenv("SPORTSPREDICT_ARCHIVE.SCHEDULE", "*/5 * * * *")
	t.Setenv("SPORTSPREDICT_ARCHIVE.RETENTION_DAYS", "7")
	t.Setenv("SPORTSPREDICT_OBSERVABILITY.LOGGING.LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins())
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, 5, cfg.Server.RateLimit.MaxRequests)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, 80*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, "*/5 * * * *", cfg.Archive.Schedule)
	assert.Equal(t, 7, cfg.Archive.RetentionDays)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.True(t, cfg.Observability.IsProduction())

	// defaults survive for keys that were not set
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad cron", "SPORTSPREDICT_ARCHIVE.SCHEDULE", "every day"},
		{"zero retention", "SPORTSPREDICT_ARCHIVE.RETENTION_DAYS", "0"},
		{"bad log level", "SPORTSPREDICT_OBSERVABILITY.LOGGING.LEVEL", "verbose"},
		{"pool max below min", "SPORTSPREDICT_DATABASE.MAX_CONNS", "1"},
		{"bad ssl mode", "SPORTSPREDICT_DATABASE.SSL_MODE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestServerConfig_AllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, ServerConfig{CORSAllowedOrigin: "*"}.AllowedOrigins())
	assert.Nil(t, ServerConfig{CORSAllowedOrigin: " , "}.AllowedOrigins())
}

func TestObservabilityConfig_HealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("database"))
	assert.True(t, cfg.HealthCheckEnabled("redis"))
	assert.False(t, cfg.HealthCheckEnabled("s3"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())
}
