package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lumiere-jewels/storefront/models"
)

// CachedProducts keeps recently read products in an LRU keyed by id and
// slug. Writes through it purge the cache; entries also expire after ttl so
// writes made by other processes become visible.
type CachedProducts struct {
	ProductStore
	cache *expirable.LRU[string, models.Product]

	mu  sync.Mutex
	gen uint64
}

func NewCachedProducts(inner ProductStore, size int, ttl time.Duration) (*CachedProducts, error) {
	if size <= 0 {
		return nil, fmt.Errorf("product cache: size must be positive, got %d", size)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("product cache: ttl must be positive, got %s", ttl)
	}
	return &CachedProducts{
		ProductStore: inner,
		cache:        expirable.NewLRU[string, models.Product](size, nil, ttl),
	}, nil
}

func (c *CachedProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return c.lookup("id:"+id, func() (*models.Product, error) {
		return c.ProductStore.GetByID(ctx, id)
	})
}

func (c *CachedProducts) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return c.lookup("slug:"+slug, func() (*models.Product, error) {
		return c.ProductStore.GetBySlug(ctx, slug)
	})
}

func (c *CachedProducts) CreateProduct(ctx context.Context, product *models.Product) error {
	defer c.invalidate()
	return c.ProductStore.CreateProduct(ctx, product)
}

func (c *CachedProducts) UpdateProduct(ctx context.Context, product *models.Product) error {
	defer c.invalidate()
	return c.ProductStore.UpdateProduct(ctx, product)
}

func (c *CachedProducts) DeleteProduct(ctx context.Context, id string) error {
	defer c.invalidate()
	return c.ProductStore.DeleteProduct(ctx, id)
}

// Len is the number of cached entries.
func (c *CachedProducts) Len() int {
	return c.cache.Len()
}

func (c *CachedProducts) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cache.Purge()
}

// lookup only stores a loaded row if no write purged the cache while it
// was being read.
func (c *CachedProducts) lookup(key string, load func() (*models.Product, error)) (*models.Product, error) {
	if p, ok := c.cache.Get(key); ok {
		return clone(p), nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	p, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.cache.Add("id:"+p.ID, *clone(*p))
		c.cache.Add("slug:"+p.Slug, *clone(*p))
	}
	return p, nil
}

func clone(p models.Product) *models.Product {
	p.Images = slices.Clone(p.Images)
	return &p
}
