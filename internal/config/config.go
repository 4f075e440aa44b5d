package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store backends for the local dialog simulator.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStoreDynamoDB = "dynamodb"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	// Timezone decides what "today" means for date validation and option cards.
	Timezone string
	// CORSAllowedOrigins applies to the simulator endpoints.
	CORSAllowedOrigins []string

	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionsTable string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "America/New_York"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", SessionStoreMemory))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionsTable: getEnv("SESSIONS_TABLE", "dialog_sessions"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c == nil || strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
