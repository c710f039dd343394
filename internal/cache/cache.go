// Package cache provides an optional Redis read-through cache for catalog
// reads. Every method is nil-safe: deployments without Redis construct no
// cache and the catalog falls through to storage.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/warmnest/warmnest/internal/storage"
)

// Config carries the optional Redis address.
type Config struct {
	RedisAddr string `env:"WARMNEST_REDIS_ADDR"`
}

const (
	productKeyPrefix = "product:"
	listVersionKey   = "products:ver"
	listKeyPrefix    = "products:list:"

	ttl = time.Minute
)

// Catalog caches product reads.
type Catalog struct {
	client *redis.Client
}

// NewCatalog builds a catalog cache. Returns nil when no address is
// configured.
func NewCatalog(cfg Config) *Catalog {
	if cfg.RedisAddr == "" {
		return nil
	}
	return &Catalog{client: redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})}
}

// NewCatalogWithClient wraps an existing client. Used by tests.
func NewCatalogWithClient(client *redis.Client) *Catalog {
	return &Catalog{client: client}
}

// Close releases the Redis connection.
func (c *Catalog) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// GetProduct returns a cached product; ok is false on miss or when the
// cache is disabled.
func (c *Catalog) GetProduct(ctx context.Context, id string) (storage.Product, bool) {
	if c == nil {
		return storage.Product{}, false
	}
	value, err := c.client.Get(ctx, productKeyPrefix+id).Result()
	if err != nil {
		return storage.Product{}, false
	}
	var product storage.Product
	if err := json.Unmarshal([]byte(value), &product); err != nil {
		return storage.Product{}, false
	}
	return product, true
}

// SetProduct stores one product. Cache errors are swallowed; the source of
// truth already answered.
func (c *Catalog) SetProduct(ctx context.Context, product storage.Product) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	c.client.Set(ctx, productKeyPrefix+product.ID, payload, ttl)
}

// GetPage returns a cached listing page for a filter.
func (c *Catalog) GetPage(ctx context.Context, filter storage.ProductFilter, pageSize int, pageToken string) (storage.ProductPage, bool) {
	if c == nil {
		return storage.ProductPage{}, false
	}
	key, err := c.pageKey(ctx, filter, pageSize, pageToken)
	if err != nil {
		return storage.ProductPage{}, false
	}
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return storage.ProductPage{}, false
	}
	var page storage.ProductPage
	if err := json.Unmarshal([]byte(value), &page); err != nil {
		return storage.ProductPage{}, false
	}
	return page, true
}

// SetPage stores one listing page.
func (c *Catalog) SetPage(ctx context.Context, filter storage.ProductFilter, pageSize int, pageToken string, page storage.ProductPage) {
	if c == nil {
		return
	}
	key, err := c.pageKey(ctx, filter, pageSize, pageToken)
	if err != nil {
		return
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, payload, ttl)
}

// Invalidate drops one product entry and bumps the listing version so every
// cached page goes stale at once. Old pages expire by TTL.
func (c *Catalog) Invalidate(ctx context.Context, productID string) {
	if c == nil {
		return
	}
	if productID != "" {
		c.client.Del(ctx, productKeyPrefix+productID)
	}
	c.client.Incr(ctx, listVersionKey)
}

// pageKey namespaces listing keys by the current invalidation version.
func (c *Catalog) pageKey(ctx context.Context, filter storage.ProductFilter, pageSize int, pageToken string) (string, error) {
	version, err := c.client.Get(ctx, listVersionKey).Result()
	if err == redis.Nil {
		version = "0"
	} else if err != nil {
		return "", err
	}
	parts := []string{
		version,
		filter.Category,
		filter.VendorID,
		filter.Search,
		strconv.FormatBool(filter.IncludeInactive),
		strconv.Itoa(pageSize),
		pageToken,
	}
	return fmt.Sprintf("%s%s", listKeyPrefix, strings.Join(parts, "\x1f")), nil
}
