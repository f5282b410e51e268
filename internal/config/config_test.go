package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setShopify(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "izerwaren.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
}

func TestLoadDefaults(t *testing.T) {
	setShopify(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "2024-01", cfg.Shopify.APIVersion)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "", cfg.Redis.URL)
	assert.Equal(t, "USD", cfg.Pricing.Currency)
	assert.Equal(t, 1000, cfg.Pricing.MaxBulkRows)
	assert.True(t, cfg.Pricing.TaxRatePercent.IsZero())
	assert.Equal(t, DefaultVolumeDiscounts, cfg.Pricing.VolumeDiscounts)
	assert.Equal(t, "category_name", cfg.Catalog.CategoryFilterColumn)
}

func TestLoadFromEnvironment(t *testing.T) {
	setShopify(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("TAX_RATE_PERCENT", "8.25")
	t.Setenv("FLAT_SHIPPING", "35")
	t.Setenv("VOLUME_DISCOUNTS", "10:3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "8.25", cfg.Pricing.TaxRatePercent.String())
	assert.Equal(t, "35", cfg.Pricing.FlatShipping.String())
	assert.Equal(t, "10:3", cfg.Pricing.VolumeDiscounts)
}

func TestLoadRequiresShopify(t *testing.T) {
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "SHOPIFY_SHOP_DOMAIN")
}

func TestLoadRejectsBadAmounts(t *testing.T) {
	setShopify(t)
	t.Setenv("TAX_RATE_PERCENT", "eight")

	_, err := Load()
	assert.ErrorContains(t, err, "TAX_RATE_PERCENT")

	t.Setenv("TAX_RATE_PERCENT", "-1")
	_, err = Load()
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoadRejectsBadCacheTTL(t *testing.T) {
	setShopify(t)
	t.Setenv("CATALOG_CACHE_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "CATALOG_CACHE_TTL")
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "izerwaren", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=izerwaren sslmode=require", db.DSN())
}
