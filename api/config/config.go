package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// Config holds the application configuration
type Config struct {
	DatabaseURL     string
	StripeSecretKey string
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string
	// Server settings
	HTTPPort    string
	LogLevel    string
	Environment string
	Version     string
	// Optional explicit path to the OpenAPI document served at /openapi.yaml
	OpenAPIPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" {
		// Check if .env file exists in current directory
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// Load .env file
			err = godotenv.Load(envPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		// Move up one directory
		currentDir = filepath.Dir(currentDir)
	}

	// Get required environment variables
	requiredVars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"DatabaseURL", "DATABASE_URL", "Database URL", true},
		{"StripeSecretKey", "STRIPE_SECRET_KEY", "Stripe Secret Key", true},
		// Optional integration base URL for remote tests
		{"IntegrationBaseURL", "INTEGRATION_BASE_URL", "Integration Base URL", false},
		// Optional server settings
		{"HTTPPort", "PORT", "HTTP Port", false},
		{"LogLevel", "LOG_LEVEL", "Log Level", false},
		{"Environment", "ENVIRONMENT", "Environment", false},
		{"Version", "VERSION", "Version", false},
		{"OpenAPIPath", "OPENAPI_PATH", "OpenAPI Path", false},
	}

	for _, v := range requiredVars {
		value := os.Getenv(v.envVar)
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.HTTPPort == "" {
		config.HTTPPort = "3000"
	}
	if config.LogLevel == "" {
		config.LogLevel = "INFO"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}
	if config.Version == "" {
		config.Version = DefaultVersion
	}

	return config, nil
}

// CurrentVersion returns the configured service version, falling back to the
// default when configuration has not been loaded (e.g., in unit tests).
func CurrentVersion() string {
	if AppConfig != nil && AppConfig.Version != "" {
		return AppConfig.Version
	}
	return DefaultVersion
}
