package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"presshealth/internal/errors"
)

// Store drivers accepted in STORE_DRIVER
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Config represents the complete server configuration
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Upload  UploadConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// StoreConfig selects where parsed uploads are kept
type StoreConfig struct {
	Driver     string
	URL        string
	SQLitePath string
}

// UploadConfig holds upload limits and processing defaults
type UploadConfig struct {
	MaxFileSize         int64
	DefaultOutlierLevel int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Store:   *loadStoreConfig(),
		Upload:  *loadUploadConfig(),
		Logging: LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadStoreConfig() *StoreConfig {
	return &StoreConfig{
		Driver:     strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverSQLite)),
		URL:        getEnvOrDefault("DATABASE_URL", ""),
		SQLitePath: getEnvOrDefault("SQLITE_PATH", "uploads/presshealth.db"),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:         int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		DefaultOutlierLevel: getEnvIntOrDefault("DEFAULT_OUTLIER_LEVEL", 1),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Store.Driver {
	case DriverSQLite:
		if config.Store.SQLitePath == "" {
			return errors.ConfigInvalid("SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres, DriverMySQL:
		if config.Store.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the " + config.Store.Driver + " store")
		}
	case DriverMemory:
	default:
		return errors.ConfigInvalid("unknown STORE_DRIVER " + strconv.Quote(config.Store.Driver))
	}
	if config.Upload.MaxFileSize <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.DefaultOutlierLevel < 1 || config.Upload.DefaultOutlierLevel > 5 {
		return errors.ConfigInvalid("DEFAULT_OUTLIER_LEVEL must be between 1 and 5")
	}
	return nil
}

// DSN returns the data source name for the configured SQL driver
func (s StoreConfig) DSN() string {
	if s.Driver == DriverSQLite {
		return s.SQLitePath
	}
	return s.URL
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
