// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mmynk/patungan/internal/auth"
)

// Config holds the server settings.
type Config struct {
	Port            int
	DBPath          string
	JWTSecret       string
	TokenTTL        time.Duration
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// devSecret is only used when JWT_SECRET is unset.
const devSecret = "patungan-dev-secret-change-me"

// Load reads the configuration from environment variables, falling back to
// defaults suitable for local development.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "./data/patungan.db"),
		JWTSecret: getEnv("JWT_SECRET", devSecret),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8080")); err != nil || cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", auth.DefaultTokenDuration.String())); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("LOG_FORMAT must be text or json")
	}

	return cfg, nil
}

// UsesDevSecret reports whether tokens are signed with the built-in development secret.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devSecret
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
