package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a piece of jewellery in the catalog.
// Slug is unique and URL-safe; CategoryID is a weak reference.
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Price       Money     `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  string    `gorm:"index;not null;type:varchar(36)" json:"categoryId"`
	Images      []string  `gorm:"serializer:json;type:text;not null" json:"images"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Material    *string   `json:"material,omitempty"`
	Featured    bool      `gorm:"index;not null;default:false" json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductFilters narrows a catalog listing.
type ProductFilters struct {
	CategoryID    string
	Featured      *bool
	PriceLessThan *Money
}

// Match applies the filters to a single product.
func (f ProductFilters) Match(p Product) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.PriceLessThan != nil && !p.Price.Less(*f.PriceLessThan) {
		return false
	}
	return true
}
