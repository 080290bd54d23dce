package orders

import (
	"fmt"

	"github.com/lumiere-jewels/storefront/models"
)

// ErrInvalidTransition is returned when an order cannot move to the
// requested status. It maps to 409.
var ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", models.ErrConflict)

// CanTransition reports whether an order in status from may move to to.
// Orders can move backwards for returns and corrections, but once shipped
// they can never return to an unpaid or unconfirmed state.
func CanTransition(from, to models.OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	switch from {
	case models.OrderStatusShipped, models.OrderStatusDelivered:
		return to != models.OrderStatusPending && to != models.OrderStatusPendingPayment
	}
	return true
}

// initialStatus is the caller's choice, or pending when none was given.
// A payment intent alone does not change the starting status.
func initialStatus(requested string) models.OrderStatus {
	if requested != "" {
		return models.OrderStatus(requested)
	}
	return models.OrderStatusPending
}
