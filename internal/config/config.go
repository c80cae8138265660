// Package config provides configuration for the engagement engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process configuration sourced from the environment.
type Config struct {
	// Server settings
	HTTPPort     int
	InternalPort int

	// Database
	DatabaseURL string

	// Collaborators
	MailerURL string
	RedisURL  string

	// Timeouts
	MailerTimeout time.Duration
	ItemTimeout   time.Duration

	// Batch settings
	BatchPageSize int
	ClaimTTL      time.Duration

	// Engine tunables (weights, thresholds, offer table). Loaded from
	// ENGINE_CONFIG when set, defaults otherwise.
	Tunables *Tunables

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	tunables, err := LoadTunables(os.Getenv("ENGINE_CONFIG"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		InternalPort:  getEnvInt("INTERNAL_PORT", 8081),
		DatabaseURL:   getEnv("DATABASE_URL", "file:engage.db?cache=shared&mode=rwc"),
		MailerURL:     getEnv("MAILER_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		MailerTimeout: time.Duration(getEnvInt("MAILER_TIMEOUT_MS", 5000)) * time.Millisecond,
		ItemTimeout:   time.Duration(getEnvInt("ITEM_TIMEOUT_MS", 10000)) * time.Millisecond,
		BatchPageSize: getEnvInt("BATCH_PAGE_SIZE", 100),
		ClaimTTL:      time.Duration(getEnvInt("CLAIM_TTL_MS", 300000)) * time.Millisecond,
		Tunables:      tunables,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
