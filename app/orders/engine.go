package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lumiere-jewels/storefront/models"
)

// OrderStore is the persistence the engine owns. CreateOrder must write
// the order and its items as one unit.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error)
}

type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

type CartSource interface {
	ListItems(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
	Clear(ctx context.Context, owner models.CartOwner) error
}

// Notifier is told about order events. Implementations must not block the
// caller and must swallow their own failures.
type Notifier interface {
	OrderPlaced(order models.Order)
	OrderStatusChanged(order models.Order, previous models.OrderStatus)
}

// ShippingPolicy prices shipping for a cart checkout.
type ShippingPolicy struct {
	FlatRate models.Money
	// FreeOver waives the flat rate when the subtotal reaches it.
	FreeOver *models.Money
}

func (p ShippingPolicy) For(subtotal models.Money) models.Money {
	if p.FreeOver != nil && !subtotal.Less(*p.FreeOver) {
		return models.ZeroMoney
	}
	return p.FlatRate
}

type Deps struct {
	Orders   OrderStore
	Products ProductLookup
	Carts    CartSource
	Notifier Notifier
	Shipping ShippingPolicy
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine places orders and runs their status workflow. It is the only
// writer of orders and order items.
type Engine struct {
	orders   OrderStore
	products ProductLookup
	carts    CartSource
	notifier Notifier
	shipping ShippingPolicy
	logger   *slog.Logger
	now      func() time.Time
}

func NewEngine(d Deps) *Engine {
	e := &Engine{
		orders:   d.Orders,
		products: d.Products,
		carts:    d.Carts,
		notifier: d.Notifier,
		shipping: d.Shipping,
		logger:   d.Logger,
		now:      d.Now,
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// CreateOrder validates an order with its line items and persists both
// atomically. Every line must reference a product that exists right now.
func (e *Engine) CreateOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(req.Items))
	for i, li := range req.Items {
		items[i] = models.OrderItem{
			ProductID:    li.ProductID,
			ProductName:  li.ProductName,
			ProductPrice: models.MustMoney(li.ProductPrice),
			Quantity:     li.Quantity,
		}
	}

	total := models.MustMoney(req.Order.Total)
	if subtotal := models.Subtotal(items); total.Less(subtotal) {
		return nil, models.NewValidationError("order.total",
			fmt.Sprintf("must be at least the item subtotal %s", subtotal))
	}

	if err := e.checkProducts(ctx, items); err != nil {
		return nil, err
	}

	h := req.Order
	order := &models.Order{
		UserID:          nonEmpty(h.UserID),
		CustomerEmail:   models.NormalizeEmail(h.CustomerEmail),
		CustomerName:    h.CustomerName,
		ShippingAddress: h.ShippingAddress.toModel(),
		Total:           total,
		Status:          initialStatus(h.Status),
		PaymentIntentID: nonEmpty(h.PaymentIntentID),
	}
	if err := e.place(ctx, order, items); err != nil {
		return nil, err
	}
	return order, nil
}

// checkProducts fails with a ValidationError naming every line whose
// product is unknown.
func (e *Engine) checkProducts(ctx context.Context, items []models.OrderItem) error {
	var ve *models.ValidationError
	for i, it := range items {
		_, err := e.products.GetByID(ctx, it.ProductID)
		switch {
		case err == nil:
		case errors.Is(err, models.ErrNotFound):
			if ve == nil {
				ve = &models.ValidationError{}
			}
			ve.Add(fmt.Sprintf("items[%d].productId", i), "references an unknown product")
		default:
			return persistence("look up product", err)
		}
	}
	if ve != nil {
		return ve
	}
	return nil
}

// place stamps identity and time on a validated order and writes it.
func (e *Engine) place(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	order.ID = uuid.NewString()
	order.CreatedAt = e.now().UTC()
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].OrderID = order.ID
	}

	if err := e.orders.CreateOrder(ctx, order, items); err != nil {
		return persistence("create order", err)
	}

	e.logger.Info("Order placed",
		"order_id", order.ID,
		"items", len(items),
		"total", order.Total.String(),
		"status", order.Status)
	e.notifier.OrderPlaced(*order)
	return nil
}

// GetOrders lists every order, or only userID's when it is non-empty.
func (e *Engine) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := e.orders.ListOrders(ctx, userID)
	if err != nil {
		return nil, persistence("list orders", err)
	}
	return orders, nil
}

func (e *Engine) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := e.orders.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("get order", err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status, leaving every other field
// untouched. Setting the current status again is a no-op.
func (e *Engine) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := e.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if previous == next {
		return order, nil
	}
	if !CanTransition(previous, next) {
		return nil, fmt.Errorf("order %s from %s to %s: %w", id, previous, next, ErrInvalidTransition)
	}

	if err := e.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, persistence("update order status", err)
	}
	order.Status = next

	e.logger.Info("Order status changed", "order_id", id, "from", previous, "to", next)
	e.notifier.OrderStatusChanged(*order, previous)
	return order, nil
}

func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	counts, err := e.orders.CountByStatus(ctx)
	if err != nil {
		return nil, persistence("count orders", err)
	}
	stats := &Stats{ByStatus: make(map[models.OrderStatus]int, len(counts))}
	for status, n := range counts {
		stats.ByStatus[status] = n
		stats.Total += n
	}
	return stats, nil
}

// persistence passes taxonomy errors through and wraps anything else as a
// PersistenceError.
func persistence(op string, err error) error {
	var (
		ve *models.ValidationError
		pe *models.PersistenceError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &pe),
		errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrConflict):
		return err
	}
	return &models.PersistenceError{Op: op, Err: err}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(models.Order)                            {}
func (nopNotifier) OrderStatusChanged(models.Order, models.OrderStatus) {}
