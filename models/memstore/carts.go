package memstore

import (
	"context"

	"github.com/lumiere-jewels/storefront/models"
)

type Carts struct{ s *Store }

func (r *Carts) ListItems(_ context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]models.CartItem, 0)
	for _, it := range r.s.cartItems.all() {
		if owner.Owns(it) {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *Carts) GetItem(_ context.Context, id string) (*models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.cartItems.get(id)
	if !ok {
		return nil, models.ErrCartItemNotFound
	}
	return &it, nil
}

// AddItem increments the owner's line for the same product when one exists.
func (r *Carts) AddItem(_ context.Context, item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	owner := item.Owner()
	existing, ok := r.s.cartItems.find(func(it models.CartItem) bool {
		return owner.Owns(it) && it.ProductID == item.ProductID
	})
	if ok {
		existing.Quantity += item.Quantity
		r.s.cartItems.put(existing.ID, existing)
		*item = existing
		return nil
	}

	r.s.stamp(&item.ID, &item.CreatedAt)
	r.s.cartItems.put(item.ID, *item)
	return nil
}

func (r *Carts) UpdateQuantity(_ context.Context, id string, quantity int) (*models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.cartItems.get(id)
	if !ok {
		return nil, models.ErrCartItemNotFound
	}
	it.Quantity = quantity
	r.s.cartItems.put(id, it)
	return &it, nil
}

func (r *Carts) RemoveItem(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.cartItems.delete(id) {
		return models.ErrCartItemNotFound
	}
	return nil
}

func (r *Carts) Clear(_ context.Context, owner models.CartOwner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, it := range r.s.cartItems.all() {
		if owner.Owns(it) {
			r.s.cartItems.delete(it.ID)
		}
	}
	return nil
}
