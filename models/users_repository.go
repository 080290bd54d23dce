package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// CreateUser fails with ErrConflict on a duplicate email or username.
func (r *UsersRepository) CreateUser(ctx context.Context, user *User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error, nil)
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", NormalizeEmail(email))
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UsersRepository) first(ctx context.Context, cond string, arg any) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&user).Error; err != nil {
		return nil, translate("get user", err, ErrUserNotFound)
	}
	return &user, nil
}

type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]WishlistItem, error) {
	var items []WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, translate("list wishlist", err, nil)
	}
	return items, nil
}

// AddItem is idempotent per (user, product): an existing row is returned
// through item instead of inserting a duplicate.
func (r *WishlistRepository) AddItem(ctx context.Context, item *WishlistItem) error {
	var existing WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&existing).Error
	switch {
	case err == nil:
		*item = existing
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return translate("add wishlist item", err, nil)
	}
	return translate("add wishlist item", r.db.WithContext(ctx).Create(item).Error, nil)
}

func (r *WishlistRepository) RemoveItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&WishlistItem{}, "id = ?", id)
	if res.Error != nil {
		return translate("remove wishlist item", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}
