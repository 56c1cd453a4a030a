package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the relay configuration. It is read once at process start
// and never mutated afterwards; changing any of these requires a restart.
type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Gateway
	WSPort int `env:"WS_PORT" default:"8080"`

	// OSC destination (the visuals engine)
	DestHost string `env:"OSC_DEST_HOST" default:"127.0.0.1"`
	DestPort int    `env:"OSC_DEST_PORT" default:"7000"`

	// Local UDP bind port for the outbound/inbound OSC socket
	LocalPort int `env:"OSC_LOCAL_PORT" default:"57121"`

	// Development
	LogLevel string `env:"LOG_LEVEL" default:"debug"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from the working directory. If it doesn't
	// exist that's OK - we can still use system env vars.
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Ports
	if err := loadEnvInt(&config.WSPort, "WS_PORT", 8080); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DestPort, "OSC_DEST_PORT", 7000); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.LocalPort, "OSC_LOCAL_PORT", 57121); err != nil {
		return nil, err
	}

	// Destination
	if err := loadEnvString(&config.DestHost, "OSC_DEST_HOST", "127.0.0.1"); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	// Validate ports are in valid range
	if c.WSPort < 1 || c.WSPort > 65535 {
		errors = append(errors, "WS_PORT must be between 1 and 65535")
	}
	if c.DestPort < 1 || c.DestPort > 65535 {
		errors = append(errors, "OSC_DEST_PORT must be between 1 and 65535")
	}
	if c.LocalPort < 1 || c.LocalPort > 65535 {
		errors = append(errors, "OSC_LOCAL_PORT must be between 1 and 65535")
	}

	if c.DestHost == "" {
		errors = append(errors, "OSC_DEST_HOST must not be empty")
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// DestAddr returns the destination as a host:port string
func (c *Config) DestAddr() string {
	return fmt.Sprintf("%s:%d", c.DestHost, c.DestPort)
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
