package models

import (
	"context"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, translate("list products", err, nil)
	}
	return products, nil
}

func (r *ProductsRepository) GetFeaturedProducts(ctx context.Context) ([]Product, error) {
	featured := true
	products, _, err := r.GetFilteredProducts(ctx, 0, 0, ProductFilters{Featured: &featured})
	return products, err
}

// GetFilteredProducts returns one page of matching products and the total
// number of matches. A limit of 0 returns every match.
func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{})

	// Filter
	if filters.CategoryID != "" {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if filters.Featured != nil {
		query = query.Where("featured = ?", *filters.Featured)
	}
	if filters.PriceLessThan != nil {
		query = query.Where("price < ?", filters.PriceLessThan.Decimal)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate("count products", err, nil)
	}

	query = query.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, translate("list products", err, nil)
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, translate("get product", err, ErrProductNotFound)
	}
	return &product, nil
}

func (r *ProductsRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		return nil, translate("get product", err, ErrProductNotFound)
	}
	return &product, nil
}

// CreateProduct fails with ErrConflict when the slug is taken.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	return translate("create product", r.db.WithContext(ctx).Create(product).Error, nil)
}

func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	res := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(product)
	if res.Error != nil {
		return translate("update product", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes the product only. Order items keep their snapshots.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete product", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
