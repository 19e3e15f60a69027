// Package config provides configuration for the dashboard service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Upstream telemetry API
	TelemetryURL     string
	TelemetryToken   string
	TelemetryTimeout time.Duration

	// Live tail
	TailPollInterval time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:      getEnv("DATABASE_URL", "file:promptlens.db?cache=shared&mode=rwc"),
		TelemetryURL:     getEnv("TELEMETRY_URL", "http://localhost:4318"),
		TelemetryToken:   getEnv("TELEMETRY_TOKEN", ""),
		TelemetryTimeout: time.Duration(getEnvInt("TELEMETRY_TIMEOUT_MS", 15000)) * time.Millisecond,
		TailPollInterval: time.Duration(getEnvInt("TAIL_POLL_INTERVAL_MS", 2000)) * time.Millisecond,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	return cfg
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
