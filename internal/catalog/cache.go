package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
)

const (
	VariantCachePrefix = "catalog:variant:"
	SKUCachePrefix     = "catalog:sku:"

	DefaultCacheTTL = 5 * time.Minute
)

// Resolver is the lookup surface shared by the Postgres catalog and the cache
type Resolver interface {
	Resolve(ctx context.Context, productID, variantID int64) (*domain.CatalogEntry, error)
	ResolveSKU(ctx context.Context, sku string) (*domain.CatalogEntry, error)
}

// CachedResolver serves catalog lookups from Redis and falls back to the backing resolver.
// Redis failures never fail a lookup. Errors from the backing resolver, not-found included,
// are returned uncached.
type CachedResolver struct {
	next   Resolver
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver creates a resolver caching entries for ttl
func NewCachedResolver(next Resolver, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedResolver{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func variantKey(variantID int64) string {
	return VariantCachePrefix + strconv.FormatInt(variantID, 10)
}

func skuKey(sku string) string {
	return SKUCachePrefix + sku
}

func (c *CachedResolver) Resolve(ctx context.Context, productID, variantID int64) (*domain.CatalogEntry, error) {
	key := variantKey(variantID)
	if entry, ok := c.get(ctx, key); ok {
		if productID == 0 || entry.ShopifyProductID == productID {
			return entry, nil
		}
	}

	entry, err := c.next.Resolve(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, entry)
	return entry, nil
}

func (c *CachedResolver) ResolveSKU(ctx context.Context, sku string) (*domain.CatalogEntry, error) {
	key := skuKey(sku)
	if entry, ok := c.get(ctx, key); ok {
		return entry, nil
	}

	entry, err := c.next.ResolveSKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, entry)
	c.set(ctx, variantKey(entry.ShopifyVariantID), entry)
	return entry, nil
}

// Invalidate drops the cached entries of one variant after a catalog write
func (c *CachedResolver) Invalidate(ctx context.Context, entry *domain.CatalogEntry) {
	if err := c.redis.Del(ctx, variantKey(entry.ShopifyVariantID), skuKey(entry.SKU)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate catalog cache",
			zap.Int64("variant_id", entry.ShopifyVariantID),
			zap.Error(err),
		)
	}
}

func (c *CachedResolver) get(ctx context.Context, key string) (*domain.CatalogEntry, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var entry domain.CatalogEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Failed to unmarshal cached catalog entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &entry, true
}

func (c *CachedResolver) set(ctx context.Context, key string, entry *domain.CatalogEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("Failed to marshal catalog entry for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
