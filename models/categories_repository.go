package models

import (
	"context"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).
		Order("display_order ASC").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, translate("list categories", err, nil)
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate("get category", err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoriesRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate("get category", err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	return translate("create category", r.db.WithContext(ctx).Create(category).Error, nil)
}

func (r *CategoriesRepository) UpdateCategory(ctx context.Context, category *Category) error {
	res := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ?", category.ID).
		Select("*").
		Omit("id").
		Updates(category)
	if res.Error != nil {
		return translate("update category", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory does not cascade: products keep their dangling CategoryID.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete category", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
