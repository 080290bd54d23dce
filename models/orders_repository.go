package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// CreateOrder writes the order header and every item in one transaction.
// If any item insert fails the header is rolled back with it.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *Order, items []OrderItem) error {
	if len(items) == 0 {
		return NewValidationError("items", "must have at least 1 entries")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return translate("create order", err, nil)
	}
	order.Items = items
	return nil
}

// ListOrders returns every order, or only userID's when it is non-empty.
func (r *OrdersRepository) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, translate("list orders", err, nil)
	}
	return orders, nil
}

func (r *OrdersRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, translate("get order", err, ErrOrderNotFound)
	}
	return &order, nil
}

// UpdateStatus overwrites the status column only.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate("update order status", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CountByStatus reports how many orders sit in each status.
func (r *OrdersRepository) CountByStatus(ctx context.Context) (map[OrderStatus]int, error) {
	var rows []struct {
		Status OrderStatus
		Count  int
	}
	err := r.db.WithContext(ctx).
		Model(&Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate("count orders", err, nil)
	}

	counts := make(map[OrderStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
