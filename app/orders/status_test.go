package orders

import (
	"testing"

	"github.com/lumiere-jewels/storefront/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	const (
		pending        = models.OrderStatusPending
		pendingPayment = models.OrderStatusPendingPayment
		confirmed      = models.OrderStatusConfirmed
		shipped        = models.OrderStatusShipped
		delivered      = models.OrderStatusDelivered
		cancelled      = models.OrderStatusCancelled
	)

	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{pending, confirmed, true},
		{pendingPayment, confirmed, true},
		{confirmed, shipped, true},
		{shipped, delivered, true},
		{delivered, cancelled, true},
		{cancelled, pending, true},
		{confirmed, pending, true},
		{shipped, confirmed, true},
		{shipped, pending, false},
		{shipped, pendingPayment, false},
		{delivered, pending, false},
		{delivered, pendingPayment, false},
		{delivered, delivered, true},
		{pending, "lost", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestShippingPolicy(t *testing.T) {
	free := models.MustMoney("150.00")
	policy := ShippingPolicy{FlatRate: models.MustMoney("7.50"), FreeOver: &free}

	assert.Equal(t, "7.50", policy.For(models.MustMoney("149.99")).String())
	assert.Equal(t, "0.00", policy.For(models.MustMoney("150.00")).String())
	assert.Equal(t, "0.00", ShippingPolicy{}.For(models.MustMoney("10.00")).String())
}
