package models

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, slug, price string) *Product {
	t.Helper()
	p := &Product{
		Name:       slug,
		Slug:       slug,
		Price:      MustMoney(price),
		CategoryID: "rings",
		Images:     []string{"https://img.example/" + slug + ".jpg"},
		Stock:      3,
	}
	require.NoError(t, NewProductsRepository(db).CreateProduct(context.Background(), p))
	return p
}

func sampleOrder() (*Order, []OrderItem) {
	return &Order{
			CustomerEmail: "ada@example.com",
			CustomerName:  "Ada",
			ShippingAddress: ShippingAddress{
				Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
			},
			Total:  MustMoney("244.98"),
			Status: OrderStatusPending,
		}, []OrderItem{
			{ProductID: "p1", ProductName: "Gold Band", ProductPrice: MustMoney("89.99"), Quantity: 2},
			{ProductID: "p2", ProductName: "Pearl Studs", ProductPrice: MustMoney("65.00"), Quantity: 1},
		}
}

func TestOrdersRepository_CreateAndRead(t *testing.T) {
	// Arrange
	db := newTestDB(t)
	repo := NewOrdersRepository(db)
	ctx := context.Background()
	order, items := sampleOrder()

	// Act
	err := repo.CreateOrder(ctx, order, items)

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "244.98", got.Total.String())
	assert.Equal(t, "Springfield", got.ShippingAddress.City)
	require.Len(t, got.Items, 2)
	for _, it := range got.Items {
		assert.Equal(t, order.ID, it.OrderID)
	}
	assert.Equal(t, "244.98", Subtotal(got.Items).String())
}

func TestOrdersRepository_CreateIsAtomic(t *testing.T) {
	// Arrange
	db := newTestDB(t)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			tx.AddError(errors.New("disk full"))
		}
	}))
	repo := NewOrdersRepository(db)
	ctx := context.Background()
	order, items := sampleOrder()

	// Act
	err := repo.CreateOrder(ctx, order, items)

	// Assert
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe), "got %v", err)

	var orders, rows int64
	require.NoError(t, db.Model(&Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&OrderItem{}).Count(&rows).Error)
	assert.Zero(t, orders)
	assert.Zero(t, rows)
	_, err = repo.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrdersRepository_StatusAndCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrdersRepository(db)
	ctx := context.Background()

	first, items := sampleOrder()
	require.NoError(t, repo.CreateOrder(ctx, first, items))
	second, items := sampleOrder()
	require.NoError(t, repo.CreateOrder(ctx, second, items))

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, OrderStatusShipped))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", OrderStatusShipped), ErrOrderNotFound)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[OrderStatus]int{OrderStatusShipped: 1, OrderStatusPending: 1}, counts)

	all, err := repo.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductsRepository_DuplicateSlugConflicts(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "gold-band", "89.99")

	dup := &Product{Name: "Other", Slug: "gold-band", Price: MustMoney("1.00"), CategoryID: "rings", Images: []string{"x"}}
	err := NewProductsRepository(db).CreateProduct(context.Background(), dup)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestProductsRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()
	seedProduct(t, db, "cheap", "20.00")
	seedProduct(t, db, "mid", "99.99")
	seedProduct(t, db, "dear", "450.00")

	under := MustMoney("100.00")
	products, total, err := repo.GetFilteredProducts(ctx, 0, 1, ProductFilters{PriceLessThan: &under})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 1)
}

func TestProductsRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "gold-band", "89.99")

	p.Price = MustMoney("79.99")
	p.Featured = true
	require.NoError(t, repo.UpdateProduct(ctx, p))
	got, err := repo.GetBySlug(ctx, "gold-band")
	require.NoError(t, err)
	assert.Equal(t, "79.99", got.Price.String())
	assert.True(t, got.Featured)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), ErrProductNotFound)
}

func TestDeletingProductKeepsOrderItems(t *testing.T) {
	// Arrange
	db := newTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "gold-band", "89.99")
	orders := NewOrdersRepository(db)
	order, _ := sampleOrder()
	order.Total = MustMoney("89.99")
	items := []OrderItem{{ProductID: p.ID, ProductName: p.Name, ProductPrice: p.Price, Quantity: 1}}
	require.NoError(t, orders.CreateOrder(ctx, order, items))

	// Act
	require.NoError(t, NewProductsRepository(db).DeleteProduct(ctx, p.ID))

	// Assert
	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.Equal(t, "89.99", got.Items[0].ProductPrice.String())
}

func TestCartRepository_AddIncrements(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	session := "guest_abc"

	first := &CartItem{SessionID: &session, ProductID: "p1", Quantity: 1}
	require.NoError(t, repo.AddItem(ctx, first))
	second := &CartItem{SessionID: &session, ProductID: "p1", Quantity: 2}
	require.NoError(t, repo.AddItem(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	items, err := repo.ListItems(ctx, CartOwner{SessionID: session})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Clear(ctx, CartOwner{SessionID: session}))
	items, err = repo.ListItems(ctx, CartOwner{SessionID: session})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUsersRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsersRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &User{Username: "ada", Email: " Ada@Example.com", Password: "hash"}))
	dup := &User{Username: "ada2", Email: "ada@example.com", Password: "hash"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrConflict)

	got, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWishlistRepository_AddIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewWishlistRepository(db)
	ctx := context.Background()

	a := &WishlistItem{UserID: "u1", ProductID: "p1"}
	require.NoError(t, repo.AddItem(ctx, a))
	b := &WishlistItem{UserID: "u1", ProductID: "p1"}
	require.NoError(t, repo.AddItem(ctx, b))

	assert.Equal(t, a.ID, b.ID)
	require.NoError(t, repo.RemoveItem(ctx, a.ID))
	assert.ErrorIs(t, repo.RemoveItem(ctx, a.ID), ErrWishlistNotFound)
}
