package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for navigation.
// Name and slug are unique; DisplayOrder sorts the storefront menu.
type Category struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string  `gorm:"uniqueIndex;not null" json:"name"`
	Slug         string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	DisplayOrder int     `gorm:"not null;default:0" json:"displayOrder"`
}

func (c *Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
