// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every setting the server and CLI need.
type Config struct {
	Addr          string
	DBDriver      string
	DBDSN         string
	PageSize      int
	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string
	LoginURL      string
	RedisAddr     string
	CacheTTL      time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

const devSecret = "yatube-dev-secret-change-me"

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset. Malformed numbers and durations are errors.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("ADDR", ":8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBDSN:         getEnv("DB_DSN", "./data/yatube.db"),
		JWTSecret:     getEnv("JWT_SECRET", devSecret),
		SessionCookie: getEnv("SESSION_COOKIE", "yatube_session"),
		LoginURL:      getEnv("LOGIN_URL", "/login/"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	var errs []error
	cfg.PageSize = getInt("PAGE_SIZE", 10, &errs)
	cfg.SessionTTL = getDuration("SESSION_TTL", 24*time.Hour, &errs)
	cfg.CacheTTL = getDuration("CACHE_TTL", 5*time.Minute, &errs)
	cfg.ReadTimeout = getDuration("READ_TIMEOUT", 15*time.Second, &errs)
	cfg.WriteTimeout = getDuration("WRITE_TIMEOUT", 15*time.Second, &errs)

	if cfg.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize))
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "pgx" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", cfg.DBDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// UsesDevSecret reports whether JWT_SECRET was left at its built-in default.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devSecret
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
