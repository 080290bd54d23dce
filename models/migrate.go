package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the storefront uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&User{},
		&WishlistItem{},
	)
}
