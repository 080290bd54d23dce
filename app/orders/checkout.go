package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumiere-jewels/storefront/models"
)

// Checkout turns the owner's cart into an order. Names and prices are
// snapshotted from the live catalog, shipping comes from the engine's
// policy, and the cart is emptied once the order is stored. A failure to
// empty the cart is logged; the order stands.
func (e *Engine) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	owner := req.Owner()
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if e.carts == nil {
		return nil, errors.New("checkout: no cart source configured")
	}

	lines, err := e.carts.ListItems(ctx, owner)
	if err != nil {
		return nil, persistence("list cart", err)
	}
	if len(lines) == 0 {
		return nil, models.NewValidationError("cart", "is empty")
	}

	items, err := e.snapshot(ctx, lines)
	if err != nil {
		return nil, err
	}

	subtotal := models.Subtotal(items)
	order := &models.Order{
		UserID:          nonEmpty(req.UserID),
		CustomerEmail:   models.NormalizeEmail(req.CustomerEmail),
		CustomerName:    req.CustomerName,
		ShippingAddress: req.ShippingAddress.toModel(),
		Total:           subtotal.Add(e.shipping.For(subtotal)),
		Status:          initialStatus(""),
		PaymentIntentID: nonEmpty(req.PaymentIntentID),
	}
	if err := e.place(ctx, order, items); err != nil {
		return nil, err
	}

	if err := e.carts.Clear(ctx, owner); err != nil {
		e.logger.Warn("Failed to clear cart after checkout", "order_id", order.ID, "error", err)
	}
	return order, nil
}

// snapshot resolves every cart line against the catalog, freezing the
// product's current name and price onto the order item.
func (e *Engine) snapshot(ctx context.Context, lines []models.CartItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	var ve *models.ValidationError
	for i, line := range lines {
		product, err := e.products.GetByID(ctx, line.ProductID)
		if errors.Is(err, models.ErrNotFound) {
			if ve == nil {
				ve = &models.ValidationError{}
			}
			ve.Add(fmt.Sprintf("cart[%d].productId", i), "product is no longer available")
			continue
		}
		if err != nil {
			return nil, persistence("look up product", err)
		}
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     line.Quantity,
		})
	}
	if ve != nil {
		return nil, ve
	}
	return items, nil
}
