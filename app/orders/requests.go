package orders

import "github.com/lumiere-jewels/storefront/models"

type AddressInput struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postalCode" validate:"required"`
	Country    string  `json:"country" validate:"required"`
}

func (a AddressInput) toModel() models.ShippingAddress {
	return models.ShippingAddress{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// OrderHeader is the order part of a POST /api/orders body. Total is a
// decimal string and must cover the item subtotal; any excess is shipping.
type OrderHeader struct {
	UserID          *string       `json:"userId,omitempty"`
	CustomerEmail   string        `json:"customerEmail" validate:"required,email"`
	CustomerName    string        `json:"customerName" validate:"required"`
	ShippingAddress *AddressInput `json:"shippingAddress" validate:"required"`
	Total           string        `json:"total" validate:"required,money"`
	Status          string        `json:"status,omitempty" validate:"omitempty,order_status"`
	PaymentIntentID *string       `json:"paymentIntentId,omitempty"`
}

type LineItem struct {
	ProductID    string `json:"productId" validate:"required"`
	ProductName  string `json:"productName" validate:"required"`
	ProductPrice string `json:"productPrice" validate:"required,money"`
	Quantity     int    `json:"quantity" validate:"gte=1"`
}

type PlaceOrderRequest struct {
	Order OrderHeader `json:"order"`
	Items []LineItem  `json:"items" validate:"min=1,dive"`
}

// CheckoutRequest carries everything a cart checkout needs besides the cart
// itself. Prices and the total are computed server-side.
type CheckoutRequest struct {
	UserID          *string       `json:"userId,omitempty"`
	SessionID       *string       `json:"sessionId,omitempty"`
	CustomerEmail   string        `json:"customerEmail" validate:"required,email"`
	CustomerName    string        `json:"customerName" validate:"required"`
	ShippingAddress *AddressInput `json:"shippingAddress" validate:"required"`
	PaymentIntentID *string       `json:"paymentIntentId,omitempty"`
}

// Owner identifies the cart being checked out.
func (r CheckoutRequest) Owner() models.CartOwner {
	var owner models.CartOwner
	if r.UserID != nil {
		owner.UserID = *r.UserID
	}
	if r.SessionID != nil {
		owner.SessionID = *r.SessionID
	}
	return owner
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

type Stats struct {
	Total    int                        `json:"total"`
	ByStatus map[models.OrderStatus]int `json:"byStatus"`
}
