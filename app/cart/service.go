// Package cart keeps the per-owner line items a customer collects before
// checkout. A cart belongs to a user or to an anonymous guest session.
package cart

import (
	"context"
	"errors"

	"github.com/lumiere-jewels/storefront/models"
)

type CartStore interface {
	ListItems(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
	GetItem(ctx context.Context, id string) (*models.CartItem, error)
	AddItem(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, id string) error
	Clear(ctx context.Context, owner models.CartOwner) error
}

type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// ProductSummary is the display data echoed next to a cart line.
type ProductSummary struct {
	Name  string       `json:"name"`
	Slug  string       `json:"slug"`
	Price models.Money `json:"price"`
	Image string       `json:"image,omitempty"`
	Stock int          `json:"stock"`
}

// Line is a cart item with its product's current display fields. Product
// is nil when the product has since been removed from the catalog.
type Line struct {
	models.CartItem
	Product *ProductSummary `json:"product"`
}

type AddRequest struct {
	UserID    *string `json:"userId"`
	SessionID *string `json:"sessionId"`
	ProductID string  `json:"productId" validate:"required"`
	// Quantity defaults to 1.
	Quantity int `json:"quantity" validate:"omitempty,gte=1"`
}

func (r AddRequest) Owner() models.CartOwner {
	var o models.CartOwner
	if r.UserID != nil {
		o.UserID = *r.UserID
	}
	if r.SessionID != nil {
		o.SessionID = *r.SessionID
	}
	return o
}

type UpdateRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

type Aggregator struct {
	items    CartStore
	products ProductLookup
}

func NewAggregator(items CartStore, products ProductLookup) *Aggregator {
	return &Aggregator{items: items, products: products}
}

func (a *Aggregator) List(ctx context.Context, owner models.CartOwner) ([]Line, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	items, err := a.items.ListItems(ctx, owner)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, len(items))
	for i, item := range items {
		line, err := a.line(ctx, item)
		if err != nil {
			return nil, err
		}
		lines[i] = *line
	}
	return lines, nil
}

// Add puts a product in the owner's cart. A product already in the cart
// has its quantity increased instead of gaining a second line.
func (a *Aggregator) Add(ctx context.Context, req AddRequest) (*Line, error) {
	owner := req.Owner()
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	_, err := a.products.GetByID(ctx, req.ProductID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewValidationError("productId", "product does not exist")
	}
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{ProductID: req.ProductID, Quantity: req.Quantity}
	owner.Apply(item)
	if err := a.items.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return a.line(ctx, *item)
}

func (a *Aggregator) UpdateQuantity(ctx context.Context, id string, req UpdateRequest) (*Line, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	item, err := a.items.UpdateQuantity(ctx, id, req.Quantity)
	if err != nil {
		return nil, err
	}
	return a.line(ctx, *item)
}

func (a *Aggregator) Remove(ctx context.Context, id string) error {
	return a.items.RemoveItem(ctx, id)
}

func (a *Aggregator) Clear(ctx context.Context, owner models.CartOwner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	return a.items.Clear(ctx, owner)
}

func (a *Aggregator) line(ctx context.Context, item models.CartItem) (*Line, error) {
	p, err := a.products.GetByID(ctx, item.ProductID)
	if errors.Is(err, models.ErrNotFound) {
		return &Line{CartItem: item}, nil
	}
	if err != nil {
		return nil, err
	}
	summary := &ProductSummary{Name: p.Name, Slug: p.Slug, Price: p.Price, Stock: p.Stock}
	if len(p.Images) > 0 {
		summary.Image = p.Images[0]
	}
	return &Line{CartItem: item, Product: summary}, nil
}
