package memstore

import (
	"context"
	"fmt"

	"github.com/lumiere-jewels/storefront/models"
)

type Users struct{ s *Store }

func (r *Users) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = models.NormalizeEmail(user.Email)
	_, taken := r.s.users.find(func(u models.User) bool {
		if u.Email == user.Email || u.Username == user.Username {
			return true
		}
		return u.ExternalID != nil && user.ExternalID != nil && *u.ExternalID == *user.ExternalID
	})
	if taken {
		return fmt.Errorf("create user: %w", models.ErrConflict)
	}

	r.s.stamp(&user.ID, &user.CreatedAt)
	r.s.users.put(user.ID, *user)
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.first(func(u models.User) bool { return u.ID == id })
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return r.first(func(u models.User) bool { return u.Email == email })
}

func (r *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.first(func(u models.User) bool { return u.Username == username })
}

func (r *Users) first(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.find(match)
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

type Wishlist struct{ s *Store }

func (r *Wishlist) ListByUser(_ context.Context, userID string) ([]models.WishlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]models.WishlistItem, 0)
	for _, it := range r.s.wishlist.newest() {
		if it.UserID == userID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *Wishlist) AddItem(_ context.Context, item *models.WishlistItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.wishlist.find(func(it models.WishlistItem) bool {
		return it.UserID == item.UserID && it.ProductID == item.ProductID
	})
	if ok {
		*item = existing
		return nil
	}
	r.s.stamp(&item.ID, &item.CreatedAt)
	r.s.wishlist.put(item.ID, *item)
	return nil
}

func (r *Wishlist) RemoveItem(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.wishlist.delete(id) {
		return models.ErrWishlistNotFound
	}
	return nil
}
