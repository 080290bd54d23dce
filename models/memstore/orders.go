package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/lumiere-jewels/storefront/models"
)

type Orders struct{ s *Store }

// CreateOrder stores the header and items under a single lock hold, so no
// reader observes an order without its items.
func (r *Orders) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	if len(items) == 0 {
		return models.NewValidationError("items", "must have at least 1 entries")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.stamp(&order.ID, &order.CreatedAt)
	if _, exists := r.s.orders.get(order.ID); exists {
		return fmt.Errorf("create order %s: %w", order.ID, models.ErrConflict)
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	stored := slices.Clone(items)
	for i := range stored {
		r.s.stamp(&stored[i].ID, nil)
		stored[i].OrderID = order.ID
	}
	for _, it := range stored {
		if _, exists := r.s.orderItems.get(it.ID); exists {
			return fmt.Errorf("create order item %s: %w", it.ID, models.ErrConflict)
		}
	}

	header := *order
	header.Items = nil
	r.s.orders.put(order.ID, header)
	for _, it := range stored {
		r.s.orderItems.put(it.ID, it)
	}

	copy(items, stored)
	order.Items = slices.Clone(stored)
	return nil
}

func (r *Orders) ListOrders(_ context.Context, userID string) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range r.s.orders.newest() {
		if userID != "" && (o.UserID == nil || *o.UserID != userID) {
			continue
		}
		o.Items = r.itemsOf(o.ID)
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *Orders) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders.get(id)
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	o.Items = r.itemsOf(id)
	return &o, nil
}

func (r *Orders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders.get(id)
	if !ok {
		return models.ErrOrderNotFound
	}
	o.Status = status
	r.s.orders.put(id, o)
	return nil
}

func (r *Orders) CountByStatus(_ context.Context) (map[models.OrderStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[models.OrderStatus]int)
	for _, o := range r.s.orders.all() {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *Orders) itemsOf(orderID string) []models.OrderItem {
	var items []models.OrderItem
	for _, it := range r.s.orderItems.all() {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	return items
}
