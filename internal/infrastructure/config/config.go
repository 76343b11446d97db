// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// The store roster is resolved here, once, into an explicit []Store value.
// Nothing downstream reads ambient environment state: the analytics engine
// receives the roster at construction time.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// maxEnvStores is how many SHOPIFY_STORE_{n}_* slots the env fallback scans.
const maxEnvStores = 8

// Config represents the entire application configuration
type Config struct {
	Stores        []Store             `yaml:"stores"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Analytics     AnalyticsConfig     `yaml:"analytics"`
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Store is one configured storefront account. A store with an empty Domain or
// Token is treated as not provisioned: it is skipped during fetching but still
// gets a zeroed row in the report's store table.
type Store struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	Token  string `yaml:"token"`
}

// Provisioned reports whether the store has enough configuration to be fetched.
func (s Store) Provisioned() bool {
	return s.Domain != "" && s.Token != ""
}

// UpstreamConfig holds settings for the Shopify Admin API client.
type UpstreamConfig struct {
	APIVersion          string `yaml:"api_version"`
	PageSize            int    `yaml:"page_size"`
	MaxPages            int    `yaml:"max_pages"`
	OrdersTimeoutSecs   int    `yaml:"orders_page_timeout_seconds"`
	ProductsTimeoutSecs int    `yaml:"products_page_timeout_seconds"`
	ShopTimeoutSecs     int    `yaml:"shop_timeout_seconds"`
}

// OrdersTimeout returns the per-page timeout for order pages.
func (u UpstreamConfig) OrdersTimeout() time.Duration {
	return time.Duration(u.OrdersTimeoutSecs) * time.Second
}

// ProductsTimeout returns the per-page timeout for product pages. Product
// pages carry full catalog payloads, so this runs longer than the orders one.
func (u UpstreamConfig) ProductsTimeout() time.Duration {
	return time.Duration(u.ProductsTimeoutSecs) * time.Second
}

// ShopTimeout returns the timeout for the shop metadata lookup.
func (u UpstreamConfig) ShopTimeout() time.Duration {
	return time.Duration(u.ShopTimeoutSecs) * time.Second
}

// AnalyticsConfig holds settings for the aggregation engine.
type AnalyticsConfig struct {
	MaxConcurrentStores int `yaml:"max_concurrent_stores"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SHOPIFY_STORE_1_TOKEN})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
// The store roster comes from the numeric-suffix SHOPIFY_STORE_{n}_NAME,
// SHOPIFY_STORE_{n}_DOMAIN and SHOPIFY_STORE_{n}_TOKEN variables.
func LoadFromEnv() *Config {
	cfg := &Config{
		Stores: storesFromEnv(),
		Server: ServerConfig{
			Port: getEnvInt("PORT", 8080),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("ANALYTICS_DB_PATH", "analytics_runs.db"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}

	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the given path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills zero-value settings with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Upstream.APIVersion == "" {
		c.Upstream.APIVersion = "2024-01"
	}
	if c.Upstream.PageSize <= 0 {
		c.Upstream.PageSize = 250
	}
	if c.Upstream.MaxPages <= 0 {
		c.Upstream.MaxPages = 50
	}
	if c.Upstream.OrdersTimeoutSecs <= 0 {
		c.Upstream.OrdersTimeoutSecs = 10
	}
	if c.Upstream.ProductsTimeoutSecs <= 0 {
		c.Upstream.ProductsTimeoutSecs = 20
	}
	if c.Upstream.ShopTimeoutSecs <= 0 {
		c.Upstream.ShopTimeoutSecs = 5
	}
	if c.Analytics.MaxConcurrentStores <= 0 {
		c.Analytics.MaxConcurrentStores = 4
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "analytics_runs.db"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

// storesFromEnv scans the numeric-suffix store variables the way the legacy
// deployment addressed them. Slots with nothing configured are omitted.
func storesFromEnv() []Store {
	var stores []Store
	for i := 1; i <= maxEnvStores; i++ {
		name := os.Getenv(fmt.Sprintf("SHOPIFY_STORE_%d_NAME", i))
		domain := os.Getenv(fmt.Sprintf("SHOPIFY_STORE_%d_DOMAIN", i))
		token := os.Getenv(fmt.Sprintf("SHOPIFY_STORE_%d_TOKEN", i))
		if name == "" && domain == "" && token == "" {
			continue
		}
		stores = append(stores, Store{
			ID:     i,
			Name:   name,
			Domain: domain,
			Token:  token,
		})
	}
	return stores
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
