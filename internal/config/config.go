package config

import (
	"os"
	"strconv"
	"time"

	"evaldash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DataConfig holds dataset discovery settings
type DataConfig struct {
	Dir         string
	PreviewRows int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: *loadServerConfig(),
		Data:   *loadDataConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			GinMode:      "release",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Data: DataConfig{
			Dir:         ".",
			PreviewRows: 5,
		},
	}
}

func loadServerConfig() *ServerConfig {
	def := Default().Server
	return &ServerConfig{
		Port:         getEnvOrDefault("PORT", def.Port),
		GinMode:      getEnvOrDefault("GIN_MODE", def.GinMode),
		ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", def.ReadTimeout),
		WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", def.WriteTimeout),
	}
}

func loadDataConfig() *DataConfig {
	def := Default().Data
	return &DataConfig{
		Dir:         getEnvOrDefault("DATA_DIR", def.Dir),
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", def.PreviewRows),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	if config.Data.PreviewRows < 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS cannot be negative")
	}

	info, err := os.Stat(config.Data.Dir)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "DATA_DIR %s is not readable", config.Data.Dir))
	}
	if !info.IsDir() {
		return errors.ConfigInvalid("DATA_DIR must be a directory")
	}
	return nil
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
