package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	API           APIConfig
	Storage       StorageConfig
	Log           LogConfig
	RateLimit     RateLimitConfig
	Notifications NotificationsConfig
}

// ServerConfig holds local API server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// APIConfig holds BuySmart backend configuration
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Token             string        `mapstructure:"token"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// StorageConfig selects where the comparison set is persisted
type StorageConfig struct {
	Type      string `mapstructure:"type"` // "memory", "file", "redis" or "sqlite"
	Path      string `mapstructure:"path"`
	RedisURL  string `mapstructure:"redis_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// NotificationsConfig holds the notification feed configuration
type NotificationsConfig struct {
	FeedSize int `mapstructure:"feed_size"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/buysmart/")

	v.SetEnvPrefix("BUYSMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadEnvFile loads variables from a .env file in the working directory.
// A missing file is not an error; existing variables are never overridden.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.requests_per_second", 5.0)
	v.SetDefault("api.burst", 10)
	v.SetDefault("api.max_retries", 3)

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.key_prefix", "buysmart")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("notifications.feed_size", 50)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set BUYSMART_API_BASE_URL)")
	}

	if config.API.MaxRetries < 1 {
		return fmt.Errorf("api max_retries must be at least 1, got: %d", config.API.MaxRetries)
	}

	switch config.Storage.Type {
	case "memory", "file", "redis", "sqlite":
	default:
		return fmt.Errorf("storage type must be 'memory', 'file', 'redis' or 'sqlite', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "redis" && config.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when storage type is 'redis'")
	}

	if (config.Storage.Type == "file" || config.Storage.Type == "sqlite") && config.Storage.Path == "" {
		return fmt.Errorf("storage path is required when storage type is '%s'", config.Storage.Type)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
