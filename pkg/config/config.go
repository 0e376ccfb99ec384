package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Telegram    TelegramConfig
	Hotels      HotelsConfig
	Translate   TranslateConfig
	Session     SessionConfig
	Redis       RedisConfig
	OTEL        OTELConfig
}

// TelegramConfig holds chat transport configuration
type TelegramConfig struct {
	Token string
}

// HotelsConfig holds hotel provider API configuration
type HotelsConfig struct {
	APIKey  string
	Host    string
	Timeout time.Duration
}

// TranslateConfig holds translation provider API configuration
type TranslateConfig struct {
	APIKey  string
	Host    string
	Timeout time.Duration
}

// SessionConfig holds dialogue session store configuration
type SessionConfig struct {
	// Backend is "memory" or "redis"
	Backend string
	// IdleTTL bounds how long an abandoned dialogue is kept
	IdleTTL time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Telegram: TelegramConfig{
			Token: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Hotels: HotelsConfig{
			APIKey:  getEnv("HOTELS_API_KEY", ""),
			Host:    getEnv("HOTELS_API_HOST", "hotels4.p.rapidapi.com"),
			Timeout: getEnvAsDuration("HOTELS_API_TIMEOUT", 10*time.Second),
		},
		Translate: TranslateConfig{
			APIKey:  getEnv("TRANSLATE_API_KEY", ""),
			Host:    getEnv("TRANSLATE_API_HOST", "deep-translate1.p.rapidapi.com"),
			Timeout: getEnvAsDuration("TRANSLATE_API_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
			IdleTTL: getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hotelbot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Session.Backend != "memory" && cfg.Session.Backend != "redis" {
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
