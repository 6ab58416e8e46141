package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "BLUEPRINT_DB_HOST", "BLUEPRINT_DB_PORT",
		"BLUEPRINT_DB_DATABASE", "BLUEPRINT_DB_USERNAME", "DB_LOG_LEVEL", "DB_AUTO_MIGRATE",
		"REDIS_ADDR", "REDIS_DB", "JWT_TTL", "OTP_TTL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"https://*", "http://*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "todos", cfg.DBName)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "warn", cfg.DBLogLevel)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("OTP_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.OTPTTL)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DB_AUTO_MIGRATE", "maybe")
	t.Setenv("OTP_TTL", "three minutes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, 3*time.Minute, cfg.OTPTTL)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "todos",
		DBUser:     "root",
		DBPassword: "todos",
	}

	assert.Equal(t, "host=db user=root password=todos dbname=todos port=5433 sslmode=disable", cfg.DSN())
}
