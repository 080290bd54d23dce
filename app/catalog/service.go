package catalog

import (
	"context"
	"errors"

	"github.com/lumiere-jewels/storefront/models"
)

type ProductStore interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]models.Product, error)
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type CategoryLookup interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ProductInput is the writable shape of a product. An empty slug is
// derived from the name.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Description string   `json:"description"`
	Price       string   `json:"price" validate:"required,money"`
	CategoryID  string   `json:"categoryId" validate:"required"`
	Images      []string `json:"images" validate:"required,min=1,dive,required,uri"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Material    *string  `json:"material"`
	Featured    bool     `json:"featured"`
}

// ProductPatch carries the fields of a partial update. Nil fields keep
// their current value.
type ProductPatch struct {
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	CategoryID  *string   `json:"categoryId"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Material    *string   `json:"material"`
	Featured    *bool     `json:"featured"`
}

func (p ProductPatch) applyTo(in *ProductInput) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Slug != nil {
		in.Slug = *p.Slug
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.CategoryID != nil {
		in.CategoryID = *p.CategoryID
	}
	if p.Images != nil {
		in.Images = *p.Images
	}
	if p.Stock != nil {
		in.Stock = *p.Stock
	}
	if p.Material != nil {
		in.Material = p.Material
	}
	if p.Featured != nil {
		in.Featured = *p.Featured
	}
}

func inputFrom(p models.Product) ProductInput {
	return ProductInput{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.String(),
		CategoryID:  p.CategoryID,
		Images:      p.Images,
		Stock:       p.Stock,
		Material:    p.Material,
		Featured:    p.Featured,
	}
}

// ListQuery selects a page of the catalog. CategorySlug is resolved to a
// category id; a Limit of 0 returns every match.
type ListQuery struct {
	CategorySlug  string
	Featured      *bool
	PriceLessThan *models.Money
	Offset        int
	Limit         int
}

type Service struct {
	products   ProductStore
	categories CategoryLookup
}

func NewService(products ProductStore, categories CategoryLookup) *Service {
	return &Service{products: products, categories: categories}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	filters := models.ProductFilters{Featured: q.Featured, PriceLessThan: q.PriceLessThan}
	if q.CategorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, q.CategorySlug)
		if errors.Is(err, models.ErrNotFound) {
			return []models.Product{}, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		filters.CategoryID = category.ID
	}
	return s.products.GetFilteredProducts(ctx, q.Offset, q.Limit, filters)
}

func (s *Service) Featured(ctx context.Context) ([]models.Product, error) {
	return s.products.GetFeaturedProducts(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	product, err := s.build(ctx, in, true)
	if err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update merges patch into the stored product and validates the result as
// a whole before writing it. The category is only checked when the patch
// moves the product, so products left in a deleted category stay editable.
func (s *Service) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in := inputFrom(*existing)
	patch.applyTo(&in)
	product, err := s.build(ctx, in, in.CategoryID != existing.CategoryID)
	if err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *Service) build(ctx context.Context, in ProductInput, checkCategory bool) (*models.Product, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	slug := in.Slug
	if slug == "" {
		slug = models.Slugify(in.Name)
	}
	if slug == "" {
		return nil, models.NewValidationError("slug", "cannot be derived from the name")
	}

	if checkCategory {
		_, err := s.categories.GetByID(ctx, in.CategoryID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("categoryId", "category does not exist")
		}
		if err != nil {
			return nil, err
		}
	}

	price, err := models.ParseMoney(in.Price)
	if err != nil {
		return nil, models.NewValidationError("price", err.Error())
	}

	return &models.Product{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Price:       price,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
		Stock:       in.Stock,
		Material:    in.Material,
		Featured:    in.Featured,
	}, nil
}
