package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// DefaultTokenKey is the fixed name the auth token is persisted under.
const DefaultTokenKey = "authToken"

// Config holds all configuration for the movie discovery front end.
type Config struct {
	API       APIConfig
	Token     TokenConfig
	Redis     RedisConfig
	DB        DBConfig
	RateLimit RateLimitConfig
	Host      string
	Port      string
	// AllowOrigins lists the browser origins, besides the server's own,
	// that may call the web front end.
	AllowOrigins []string
	PageSize     int
	LogLevel     slog.Level
}

// APIConfig describes the remote REST service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TokenConfig selects where the auth token is persisted.
type TokenConfig struct {
	Store string
	Key   string
	Dir   string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RateLimitConfig throttles login and register attempts on the web front end.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	timeoutSec, _ := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "15"))
	pageSize, _ := strconv.Atoi(getEnv("PAGE_SIZE", "12"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "10"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		Token: TokenConfig{
			Store: strings.ToLower(getEnv("TOKEN_STORE", StoreFile)),
			Key:   getEnv("TOKEN_KEY", DefaultTokenKey),
			Dir:   getEnv("TOKEN_DIR", defaultTokenDir()),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movie_frontend"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		RateLimit: RateLimitConfig{
			Max:           rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
		Host:         getEnv("SERVER_HOST", "127.0.0.1"),
		Port:         getEnv("SERVER_PORT", "3000"),
		AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "")),
		PageSize:     pageSize,
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Token.Store {
	case StoreFile, StoreRedis, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("invalid TOKEN_STORE %q: want file, redis, postgres or memory", c.Token.Store)
	}
	if c.Token.Key == "" {
		return fmt.Errorf("TOKEN_KEY must not be empty")
	}
	if slices.Contains(c.AllowOrigins, "*") {
		return fmt.Errorf("CORS_ALLOW_ORIGINS must list origins, not *")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.PageSize < 1 {
		c.PageSize = 12
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func defaultTokenDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "movie-discovery")
	}
	return ".movie-discovery"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
