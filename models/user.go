package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered customer or administrator. Password holds a bcrypt
// hash and is never serialized.
type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	IsAdmin    bool      `gorm:"not null;default:false" json:"isAdmin"`
	ExternalID *string   `gorm:"uniqueIndex" json:"externalId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// WishlistItem joins a user to a product they saved. At most one per pair.
type WishlistItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_wishlist_user_product" json:"userId"`
	ProductID string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_wishlist_user_product" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w *WishlistItem) TableName() string {
	return "wishlist_items"
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
