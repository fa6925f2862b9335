package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Registration intake
	Registration RegistrationConfig

	// Outbound notifications
	Notify NotifyConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// RegistrationConfig holds lead intake configuration
type RegistrationConfig struct {
	// DataFile is the whole-file JSON store for registrations
	DataFile string

	// Intake rate limit (requests per second, with burst)
	RateLimit float64
	RateBurst int
}

// NotifyConfig holds outbound notification channel configuration.
// Channel requirements are validated by the notify package at startup.
type NotifyConfig struct {
	EmailEnabled   bool
	MessageEnabled bool

	// Email channel (SMTP relay behind an HTTP delivery service)
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	AdminAlertEmail string
	EmailServiceURL string

	// Message channel
	MessageWebhookURL  string
	MessageAdminTarget string
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Registration intake
		Registration: RegistrationConfig{
			DataFile:  getEnv("REGISTRATIONS_FILE", "registrations.json"),
			RateLimit: getEnvAsFloat("REGISTER_RATE_LIMIT", 5),
			RateBurst: getEnvAsInt("REGISTER_RATE_BURST", 10),
		},

		// Notifications
		Notify: NotifyConfig{
			EmailEnabled:       getEnvAsBool("EMAIL_NOTIFICATIONS_ENABLED", true),
			MessageEnabled:     getEnvAsBool("MESSAGE_NOTIFICATIONS_ENABLED", false),
			SMTPHost:           getEnv("SMTP_HOST", ""),
			SMTPPort:           getEnvAsInt("SMTP_PORT", 0),
			SMTPUser:           getEnv("SMTP_USER", ""),
			SMTPPass:           getEnv("SMTP_PASS", ""),
			SMTPFrom:           getEnv("SMTP_FROM", ""),
			AdminAlertEmail:    getEnv("ADMIN_ALERT_EMAIL", ""),
			EmailServiceURL:    getEnv("EMAIL_SERVICE_URL", ""),
			MessageWebhookURL:  getEnv("MESSAGE_WEBHOOK_URL", ""),
			MessageAdminTarget: getEnv("MESSAGE_ADMIN_TARGET", "admin"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Registration.DataFile == "" {
		return fmt.Errorf("REGISTRATIONS_FILE must not be empty")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
