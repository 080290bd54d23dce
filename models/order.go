package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"         // placed, awaiting confirmation
	OrderStatusPendingPayment OrderStatus = "pending_payment" // waiting on the payment gateway
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPendingPayment,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a wire value to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", NewValidationError("status", "must be one of "+joinStatuses())
	}
	return status, nil
}

func statusNames() []string {
	names := make([]string, len(orderStatuses))
	for i, s := range orderStatuses {
		names[i] = string(s)
	}
	return names
}

func joinStatuses() string {
	return strings.Join(statusNames(), ", ")
}

type ShippingAddress struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
}

// Order is a completed checkout. Only Status changes after creation.
type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          *string         `gorm:"index;type:varchar(36)" json:"userId,omitempty"`
	CustomerEmail   string          `gorm:"not null" json:"customerEmail"`
	CustomerName    string          `gorm:"not null" json:"customerName"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	Total           Money           `gorm:"type:decimal(10,2);not null" json:"total"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentIntentID *string         `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (o *Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is an immutable line of an order. ProductName and ProductPrice
// are snapshots taken at order time; ProductID is a weak reference.
type OrderItem struct {
	ID           string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID      string `gorm:"index;not null;type:varchar(36)" json:"orderId"`
	ProductID    string `gorm:"not null;type:varchar(36)" json:"productId"`
	ProductName  string `gorm:"not null" json:"productName"`
	ProductPrice Money  `gorm:"type:decimal(10,2);not null" json:"productPrice"`
	Quantity     int    `gorm:"not null" json:"quantity"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i OrderItem) LineTotal() Money {
	return i.ProductPrice.Times(i.Quantity)
}

// Subtotal sums price x quantity over the items.
func Subtotal(items []OrderItem) Money {
	total := ZeroMoney
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
