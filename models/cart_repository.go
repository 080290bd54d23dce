package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func ownedBy(owner CartOwner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.UserID != "" {
			return db.Where("user_id = ?", owner.UserID)
		}
		return db.Where("session_id = ?", owner.SessionID)
	}
}

func (r *CartRepository) ListItems(ctx context.Context, owner CartOwner) ([]CartItem, error) {
	var items []CartItem
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(owner)).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, translate("list cart", err, nil)
	}
	return items, nil
}

func (r *CartRepository) GetItem(ctx context.Context, id string) (*CartItem, error) {
	var item CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate("get cart item", err, ErrCartItemNotFound)
	}
	return &item, nil
}

// AddItem increments the owner's existing line for the product, or inserts
// a new one. item is updated in place with the stored row.
func (r *CartRepository) AddItem(ctx context.Context, item *CartItem) error {
	owner := item.Owner()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(ownedBy(owner)).
			Where("product_id = ?", item.ProductID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(item).Error
		}
		if err != nil {
			return err
		}

		existing.Quantity += item.Quantity
		if err := tx.Model(&existing).Update("quantity", existing.Quantity).Error; err != nil {
			return err
		}
		*item = existing
		return nil
	})
	return translate("add cart item", err, nil)
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (*CartItem, error) {
	res := r.db.WithContext(ctx).Model(&CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return nil, translate("update cart item", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return nil, ErrCartItemNotFound
	}
	return r.GetItem(ctx, id)
}

func (r *CartRepository) RemoveItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&CartItem{}, "id = ?", id)
	if res.Error != nil {
		return translate("remove cart item", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, owner CartOwner) error {
	err := r.db.WithContext(ctx).Scopes(ownedBy(owner)).Delete(&CartItem{}).Error
	return translate("clear cart", err, nil)
}
