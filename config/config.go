package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Retailer   RetailerConfig
	Aggregator AggregatorConfig
	Cache      CacheConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RetailerConfig holds per-platform provider configuration
type RetailerConfig struct {
	Amazon    ProviderConfig `mapstructure:"amazon"`
	Flipkart  ProviderConfig `mapstructure:"flipkart"`
	BigBasket ProviderConfig `mapstructure:"bigbasket"`
}

// ProviderConfig configures one retailer's API access. A platform with no
// API key falls back to the stub provider at startup.
type ProviderConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AggregatorConfig holds the comparison fan-out settings
type AggregatorConfig struct {
	OverallTimeout time.Duration `mapstructure:"overall_timeout"`
}

// CacheConfig holds the result cache settings
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricescout/")

	// Environment variable settings (PRICESCOUT_SERVER_PORT -> server.port)
	v.SetEnvPrefix("PRICESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{
		"chrome-extension://*",
		"http://localhost*",
		"https://localhost*",
		"*.onrender.com",
	})

	// Retailer defaults: no API keys, so each platform starts on the stub
	v.SetDefault("retailer.amazon.base_url", "https://api.amazon.in")
	v.SetDefault("retailer.amazon.timeout", "10s")
	v.SetDefault("retailer.flipkart.base_url", "https://affiliate-api.flipkart.net")
	v.SetDefault("retailer.flipkart.timeout", "10s")
	v.SetDefault("retailer.bigbasket.base_url", "https://api.bigbasket.com")
	v.SetDefault("retailer.bigbasket.timeout", "10s")

	// Aggregator defaults
	v.SetDefault("aggregator.overall_timeout", "15s")

	// Cache defaults: freshness window for repeat lookups of the same product
	v.SetDefault("cache.ttl", "5m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Aggregator.OverallTimeout <= 0 {
		return fmt.Errorf("aggregator overall_timeout must be positive, got: %s", config.Aggregator.OverallTimeout)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
