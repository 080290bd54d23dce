package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lumiere-jewels/storefront/models"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type Broadcaster interface {
	Broadcast(ev Event)
}

// Dispatcher turns order events into customer emails and feed events.
// Emails are sent on detached goroutines bounded by a timeout; the caller
// never waits on them.
type Dispatcher struct {
	mailer  Mailer
	feed    Broadcaster
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(mailer Mailer, feed Broadcaster, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{mailer: mailer, feed: feed, timeout: timeout, logger: logger}
}

func (d *Dispatcher) OrderPlaced(order models.Order) {
	d.broadcast(EventOrderCreated, order)
	d.deliver(order.ID, confirmationMessage(order))
}

func (d *Dispatcher) OrderStatusChanged(order models.Order, previous models.OrderStatus) {
	d.broadcast(EventOrderStatusChanged, map[string]any{
		"orderId":  order.ID,
		"status":   order.Status,
		"previous": previous,
	})
	d.deliver(order.ID, statusMessage(order))
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) broadcast(kind string, payload any) {
	if d.feed != nil {
		d.feed.Broadcast(Event{Type: kind, Payload: payload})
	}
}

func (d *Dispatcher) deliver(orderID string, msg Message) {
	if d.mailer == nil || msg.To == "" {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("Mailer panicked", "order_id", orderID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Warn("Failed to send order email", "order_id", orderID, "to", msg.To, "error", err)
		}
	}()
}

func confirmationMessage(o models.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", o.CustomerName)
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %d x %s @ %s = %s\n", it.Quantity, it.ProductName, it.ProductPrice, it.LineTotal())
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", o.Total)
	a := o.ShippingAddress
	fmt.Fprintf(&b, "Shipping to: %s, %s, %s %s, %s\n", a.Line1, a.City, a.State, a.PostalCode, a.Country)
	return Message{
		To:      o.CustomerEmail,
		Subject: "Your order " + o.ID + " has been received",
		Body:    b.String(),
	}
}

func statusMessage(o models.Order) Message {
	return Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Your order %s is now %s", o.ID, humanStatus(o.Status)),
		Body: fmt.Sprintf("Hi %s,\n\nThe status of order %s changed to %s.\n",
			o.CustomerName, o.ID, humanStatus(o.Status)),
	}
}

func humanStatus(s models.OrderStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
