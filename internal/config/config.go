package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the API reads from the environment.
// It is loaded once at startup and treated as immutable afterwards.
type Config struct {
	// Server
	Port               int
	CORSAllowedOrigins []string

	// Database (variable names kept from the blueprint generator)
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBLogLevel    string
	DBAutoMigrate bool

	// Cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string
	JWTTTL    time.Duration
	OTPTTL    time.Duration

	// Logging
	LogLevel string
}

// Load reads the configuration from the process environment.
// It returns an error naming every required variable that is missing.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Port = getEnvInt("PORT", 8080)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"})

	cfg.DBHost = getEnvString("BLUEPRINT_DB_HOST", "localhost")
	cfg.DBPort = getEnvString("BLUEPRINT_DB_PORT", "5432")
	cfg.DBName = getEnvString("BLUEPRINT_DB_DATABASE", "todos")
	cfg.DBUser = getEnvString("BLUEPRINT_DB_USERNAME", "postgres")
	cfg.DBPassword = os.Getenv("BLUEPRINT_DB_PASSWORD")
	cfg.DBLogLevel = getEnvString("DB_LOG_LEVEL", "warn")
	cfg.DBAutoMigrate = getEnvBool("DB_AUTO_MIGRATE", true)

	cfg.RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.JWTTTL = getEnvDuration("JWT_TTL", 24*time.Hour)
	cfg.OTPTTL = getEnvDuration("OTP_TTL", 3*time.Minute)

	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

// DSN builds the key/value connection string understood by the pgx driver.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
