package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/smallbiznis/faktur/pkg/db"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RateLimit RateLimitConfig

	SeedDemoData bool
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from the environment, with .env as a convenience
// for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     envString("APP_SERVICE", "faktur"),
		AppVersion:  envString("APP_VERSION", "0.1.0"),
		Environment: envString("ENVIRONMENT", "development"),

		HTTPAddr: envString("HTTP_ADDR", ":8080"),

		OTLPEndpoint: envString("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            envString("DATABASE_TYPE", "postgres"),
		DBHost:            envString("DATABASE_HOST", "localhost"),
		DBPort:            envString("DATABASE_PORT", "5432"),
		DBName:            envString("DATABASE_NAME", "faktur"),
		DBUser:            envString("DATABASE_USER", "postgres"),
		DBPassword:        envString("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         envString("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     envInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     envInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: envInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: envInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		RateLimit: RateLimitConfig{
			Enabled:       envBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     envString("RATE_LIMIT_REDIS_ADDR", "localhost:6379"),
			RedisPassword: envString("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       envInt("RATE_LIMIT_REDIS_DB", 0),
		},

		SeedDemoData: envBool("SEED_DEMO_DATA", false),
	}
}

// Database narrows the app config to the connection settings pkg/db needs.
func (c Config) Database() db.Config {
	return db.Config{
		Type:            c.DBType,
		Host:            c.DBHost,
		Port:            c.DBPort,
		Name:            c.DBName,
		User:            c.DBUser,
		Password:        c.DBPassword,
		SSLMode:         c.DBSSLMode,
		MaxIdleConn:     c.DBMaxIdleConn,
		MaxOpenConn:     c.DBMaxOpenConn,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnMaxIdleTime: c.DBConnMaxIdleTime,
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}
