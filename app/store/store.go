// Package store defines the persistence contracts the storefront depends on
// and opens a concrete backend for them.
package store

import (
	"context"
	"fmt"

	"github.com/lumiere-jewels/storefront/models"
	"github.com/lumiere-jewels/storefront/models/memstore"
	"gorm.io/gorm"
)

type ProductRepository interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]models.Product, error)
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type CategoryRepository interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type CartRepository interface {
	ListItems(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
	GetItem(ctx context.Context, id string) (*models.CartItem, error)
	AddItem(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, id string) error
	Clear(ctx context.Context, owner models.CartOwner) error
}

// OrderRepository persists orders. CreateOrder must write the order and all
// of its items atomically.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error)
	AddItem(ctx context.Context, item *models.WishlistItem) error
	RemoveItem(ctx context.Context, id string) error
}

var (
	_ ProductRepository  = (*models.ProductsRepository)(nil)
	_ CategoryRepository = (*models.CategoriesRepository)(nil)
	_ CartRepository     = (*models.CartRepository)(nil)
	_ OrderRepository    = (*models.OrdersRepository)(nil)
	_ UserRepository     = (*models.UsersRepository)(nil)
	_ WishlistRepository = (*models.WishlistRepository)(nil)

	_ ProductRepository  = (*memstore.Products)(nil)
	_ CategoryRepository = (*memstore.Categories)(nil)
	_ CartRepository     = (*memstore.Carts)(nil)
	_ OrderRepository    = (*memstore.Orders)(nil)
	_ UserRepository     = (*memstore.Users)(nil)
	_ WishlistRepository = (*memstore.Wishlist)(nil)
)

// Store bundles one backend's repositories.
type Store struct {
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	Orders     OrderRepository
	Users      UserRepository
	Wishlist   WishlistRepository

	// Driver names the backend ("memory", "sqlite", "postgres").
	Driver string

	ping  func(ctx context.Context) error
	close func() error
}

// NewGormStore wraps an open, migrated gorm connection.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Products:   models.NewProductsRepository(db),
		Categories: models.NewCategoriesRepository(db),
		Carts:      models.NewCartRepository(db),
		Orders:     models.NewOrdersRepository(db),
		Users:      models.NewUsersRepository(db),
		Wishlist:   models.NewWishlistRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMemoryStore returns a store whose state lives for the process lifetime.
func NewMemoryStore() *Store {
	mem := memstore.New()
	return &Store{
		Products:   mem.Products(),
		Categories: mem.Categories(),
		Carts:      mem.Carts(),
		Orders:     mem.Orders(),
		Users:      mem.Users(),
		Wishlist:   mem.Wishlist(),
		Driver:     DriverMemory,
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	err := s.close()
	s.close = nil
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
