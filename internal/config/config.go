// Package config provides application configuration loading from
// environment variables and .env files, with viper handling precedence:
// environment variables > .env file > defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all daemon configuration.
type Config struct {
	HTTPAddr       string // HTTP server bind address
	MetricsAddr    string // Prometheus metrics server bind address
	StoreType      string // storage backend: memory, file or postgres
	ConfigFile     string // configuration file path for the file store
	DatabaseDSN    string // PostgreSQL connection string
	AdminAPIKey    string // bearer token for admin endpoints; empty disables them
	LogLevel       string // zerolog level name
	Watch          bool   // reload the file store on changes; ignored for other stores
	RateLimitPerIP int    // decision requests per IP per minute; 0 disables
	TrackingBuffer int    // decision event queue size; 0 disables tracking
}

// Load reads configuration from environment variables and an optional
// .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	_ = v.ReadInConfig() // the .env file is optional
	v.AutomaticEnv()

	setDefaults(v)

	return &Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		MetricsAddr:    v.GetString("METRICS_ADDR"),
		StoreType:      v.GetString("STORE_TYPE"),
		ConfigFile:     v.GetString("CONFIG_FILE"),
		DatabaseDSN:    v.GetString("DB_DSN"),
		AdminAPIKey:    v.GetString("ADMIN_API_KEY"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		Watch:          v.GetBool("WATCH"),
		RateLimitPerIP: v.GetInt("RATE_LIMIT_PER_IP"),
		TrackingBuffer: v.GetInt("TRACKING_BUFFER"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("STORE_TYPE", "file")
	v.SetDefault("CONFIG_FILE", "features.yaml")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WATCH", true)
	v.SetDefault("RATE_LIMIT_PER_IP", 100)
	v.SetDefault("TRACKING_BUFFER", 1024)
}

// ValidationError describes a configuration constraint violation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks constraints that Load cannot: it is called at startup
// so the daemon fails fast on misconfiguration.
func (c *Config) Validate() error {
	switch c.StoreType {
	case "memory", "file", "postgres":
	default:
		return ValidationError{
			Field:   "STORE_TYPE",
			Message: fmt.Sprintf("must be 'memory', 'file' or 'postgres', got '%s'", c.StoreType),
		}
	}

	if c.StoreType == "file" && c.ConfigFile == "" {
		return ValidationError{
			Field:   "CONFIG_FILE",
			Message: "config file path is required when STORE_TYPE=file",
		}
	}
	if c.StoreType == "postgres" && c.DatabaseDSN == "" {
		return ValidationError{
			Field:   "DB_DSN",
			Message: "database DSN is required when STORE_TYPE=postgres",
		}
	}

	if c.HTTPAddr == "" {
		return ValidationError{
			Field:   "HTTP_ADDR",
			Message: "HTTP server address cannot be empty",
		}
	}
	if c.MetricsAddr == "" {
		return ValidationError{
			Field:   "METRICS_ADDR",
			Message: "metrics server address cannot be empty",
		}
	}

	if c.RateLimitPerIP < 0 {
		return ValidationError{
			Field:   "RATE_LIMIT_PER_IP",
			Message: "rate limit cannot be negative",
		}
	}
	return nil
}
