package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/lumiere-jewels/storefront/models"
)

type Products struct{ s *Store }

func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	return p
}

func (r *Products) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, _, err := r.GetFilteredProducts(ctx, 0, 0, models.ProductFilters{})
	return products, err
}

func (r *Products) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	featured := true
	products, _, err := r.GetFilteredProducts(ctx, 0, 0, models.ProductFilters{Featured: &featured})
	return products, err
}

func (r *Products) GetFilteredProducts(_ context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]models.Product, 0)
	for _, p := range r.s.products.newest() {
		if filters.Match(p) {
			matched = append(matched, cloneProduct(p))
		}
	}

	total := int64(len(matched))
	start := min(offset, len(matched))
	end := len(matched)
	if limit > 0 {
		end = min(start+limit, len(matched))
	}
	return matched[start:end], total, nil
}

func (r *Products) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products.get(id)
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *Products) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products.find(func(p models.Product) bool { return p.Slug == slug })
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *Products) CreateProduct(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTaken(product.Slug, "") {
		return fmt.Errorf("create product: slug %q: %w", product.Slug, models.ErrConflict)
	}
	r.s.stamp(&product.ID, &product.CreatedAt)
	r.s.products.put(product.ID, cloneProduct(*product))
	return nil
}

func (r *Products) UpdateProduct(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.products.get(product.ID)
	if !ok {
		return models.ErrProductNotFound
	}
	if r.slugTaken(product.Slug, product.ID) {
		return fmt.Errorf("update product: slug %q: %w", product.Slug, models.ErrConflict)
	}
	updated := cloneProduct(*product)
	updated.CreatedAt = current.CreatedAt
	r.s.products.put(product.ID, updated)
	return nil
}

func (r *Products) DeleteProduct(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.products.delete(id) {
		return models.ErrProductNotFound
	}
	return nil
}

func (r *Products) slugTaken(slug, exceptID string) bool {
	_, taken := r.s.products.find(func(p models.Product) bool {
		return p.Slug == slug && p.ID != exceptID
	})
	return taken
}

type Categories struct{ s *Store }

func (r *Categories) GetAllCategories(_ context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := r.s.categories.all()
	slices.SortStableFunc(categories, func(a, b models.Category) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return strings.Compare(a.Name, b.Name)
	})
	return categories, nil
}

func (r *Categories) GetByID(_ context.Context, id string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories.get(id)
	if !ok {
		return nil, models.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *Categories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories.find(func(c models.Category) bool { return c.Slug == slug })
	if !ok {
		return nil, models.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *Categories) CreateCategory(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.taken(*category) {
		return fmt.Errorf("create category: %w", models.ErrConflict)
	}
	r.s.stamp(&category.ID, nil)
	r.s.categories.put(category.ID, *category)
	return nil
}

func (r *Categories) UpdateCategory(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories.get(category.ID); !ok {
		return models.ErrCategoryNotFound
	}
	if r.taken(*category) {
		return fmt.Errorf("update category: %w", models.ErrConflict)
	}
	r.s.categories.put(category.ID, *category)
	return nil
}

// DeleteCategory leaves products that reference the category untouched.
func (r *Categories) DeleteCategory(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.categories.delete(id) {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (r *Categories) taken(c models.Category) bool {
	_, taken := r.s.categories.find(func(other models.Category) bool {
		return other.ID != c.ID && (other.Slug == c.Slug || other.Name == c.Name)
	})
	return taken
}
