package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one product line in a transient cart. Exactly one of
// UserID or SessionID is set.
type CartItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    *string   `gorm:"index;type:varchar(36)" json:"userId,omitempty"`
	SessionID *string   `gorm:"index" json:"sessionId,omitempty"`
	ProductID string    `gorm:"not null;type:varchar(36)" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *CartItem) TableName() string {
	return "cart_items"
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Owner returns the identity the item belongs to.
func (c CartItem) Owner() CartOwner {
	var o CartOwner
	if c.UserID != nil {
		o.UserID = *c.UserID
	}
	if c.SessionID != nil {
		o.SessionID = *c.SessionID
	}
	return o
}

// CartOwner identifies a cart: an authenticated user or an anonymous session.
type CartOwner struct {
	UserID    string
	SessionID string
}

func (o CartOwner) Validate() error {
	switch {
	case o.UserID == "" && o.SessionID == "":
		return NewValidationError("owner", "userId or sessionId is required")
	case o.UserID != "" && o.SessionID != "":
		return NewValidationError("owner", "only one of userId or sessionId may be given")
	}
	return nil
}

// Apply stamps the owner onto a cart item.
func (o CartOwner) Apply(item *CartItem) {
	item.UserID, item.SessionID = nil, nil
	if o.UserID != "" {
		id := o.UserID
		item.UserID = &id
		return
	}
	sid := o.SessionID
	item.SessionID = &sid
}

func (o CartOwner) Owns(item CartItem) bool {
	return item.Owner() == o
}
