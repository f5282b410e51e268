package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultVolumeDiscounts is the ladder used when VOLUME_DISCOUNTS is unset
const DefaultVolumeDiscounts = "5:5:item,10:10:item,25:15:item"

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Shopify     ShopifyConfig
	Redis       RedisConfig
	Pricing     PricingConfig
	Catalog     CatalogConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// RedisConfig configures the catalog cache. An empty URL disables caching.
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type PricingConfig struct {
	VolumeDiscounts       string
	Currency              string
	TaxRatePercent        decimal.Decimal
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	MaxBulkRows           int
}

type CatalogConfig struct {
	CategoryMappingsFile string
	CategoryFilterColumn string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("CATALOG_CACHE_TTL", "5m")
	viper.SetDefault("VOLUME_DISCOUNTS", DefaultVolumeDiscounts)
	viper.SetDefault("CURRENCY", "USD")
	viper.SetDefault("TAX_RATE_PERCENT", "0")
	viper.SetDefault("FLAT_SHIPPING", "0")
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", "0")
	viper.SetDefault("MAX_BULK_ROWS", 1000)
	viper.SetDefault("CATEGORY_FILTER_COLUMN", "category_name")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cacheTTL, err := time.ParseDuration(getEnvOrViper("CATALOG_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "izerwaren"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  getEnvOrViper("SHOPIFY_SHOP_DOMAIN", ""),
			AccessToken: getEnvOrViper("SHOPIFY_ACCESS_TOKEN", ""),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2024-01"),
		},
		Redis: RedisConfig{
			URL:      getEnvOrViper("REDIS_URL", ""),
			CacheTTL: cacheTTL,
		},
		Pricing: PricingConfig{
			VolumeDiscounts: getEnvOrViper("VOLUME_DISCOUNTS", DefaultVolumeDiscounts),
			Currency:        getEnvOrViper("CURRENCY", "USD"),
			MaxBulkRows:     viper.GetInt("MAX_BULK_ROWS"),
		},
		Catalog: CatalogConfig{
			CategoryMappingsFile: getEnvOrViper("CATEGORY_MAPPINGS_FILE", ""),
			CategoryFilterColumn: getEnvOrViper("CATEGORY_FILTER_COLUMN", "category_name"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	amounts := []struct {
		key  string
		dest *decimal.Decimal
	}{
		{"TAX_RATE_PERCENT", &cfg.Pricing.TaxRatePercent},
		{"FLAT_SHIPPING", &cfg.Pricing.FlatShipping},
		{"FREE_SHIPPING_THRESHOLD", &cfg.Pricing.FreeShippingThreshold},
	}
	for _, a := range amounts {
		v, err := decimal.NewFromString(getEnvOrViper(a.key, "0"))
		if err != nil {
			return nil, fmt.Errorf("%s must be a decimal: %w", a.key, err)
		}
		if v.IsNegative() {
			return nil, fmt.Errorf("%s must not be negative", a.key)
		}
		*a.dest = v
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

// DSN returns the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
