package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/KeenIsHere/reactecom/pkg/observability"
)

const (
	categoriesCacheKey = "catalog:categories"
	productsCacheKey   = "catalog:products"
)

// CachedStore wraps a Store with a Redis cache for the two list reads.
// Writes pass through and invalidate the affected keys. A nil client
// turns the wrapper into a pass-through, so callers can wire it
// unconditionally.
type CachedStore struct {
	store   Store
	redis   *redis.Client
	ttl     time.Duration
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewCachedStore creates a caching wrapper around store. metrics may be
// nil when cache counters are not wanted.
func NewCachedStore(store Store, client *redis.Client, ttl time.Duration, logger *observability.Logger, metrics *observability.Metrics) *CachedStore {
	return &CachedStore{
		store:   store,
		redis:   client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateCategory creates a category and invalidates the category list.
func (c *CachedStore) CreateCategory(ctx context.Context, category *Category) (int64, error) {
	id, err := c.store.CreateCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, categoriesCacheKey)
	return id, nil
}

// ListCategories returns categories, served from Redis when possible.
func (c *CachedStore) ListCategories(ctx context.Context) ([]*Category, error) {
	var cached []*Category
	if c.fromCache(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}

	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.toCache(ctx, categoriesCacheKey, categories)
	return categories, nil
}

// CreateProduct creates a product and invalidates the product list.
func (c *CachedStore) CreateProduct(ctx context.Context, product *Product) (int64, error) {
	id, err := c.store.CreateProduct(ctx, product)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, productsCacheKey)
	return id, nil
}

// ListProducts returns products, served from Redis when possible.
func (c *CachedStore) ListProducts(ctx context.Context) ([]*Product, error) {
	var cached []*Product
	if c.fromCache(ctx, productsCacheKey, &cached) {
		return cached, nil
	}

	products, err := c.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	c.toCache(ctx, productsCacheKey, products)
	return products, nil
}

// fromCache loads key into dest. Any cache failure counts as a miss.
func (c *CachedStore) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		c.countMiss(key)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding undecodable cache entry")
		c.redis.Del(ctx, key)
		c.countMiss(key)
		return false
	}
	c.countHit(key)
	return true
}

// toCache stores value under key. Cache write failures are logged and
// swallowed; the database result is already in hand.
func (c *CachedStore) toCache(ctx context.Context, key string, value interface{}) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to populate cache")
	}
}

func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to invalidate cache")
	}
}

func (c *CachedStore) countHit(key string) {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(key).Inc()
	}
}

func (c *CachedStore) countMiss(key string) {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(key).Inc()
	}
}
