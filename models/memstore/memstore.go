// Package memstore keeps every storefront table in process memory. State is
// lost on restart; it backs tests and the zero-configuration dev mode.
package memstore

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumiere-jewels/storefront/models"
)

// Store holds all tables behind one mutex, so multi-row writes such as
// order creation are atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	products   *table[models.Product]
	categories *table[models.Category]
	cartItems  *table[models.CartItem]
	orders     *table[models.Order]
	orderItems *table[models.OrderItem]
	users      *table[models.User]
	wishlist   *table[models.WishlistItem]
}

func New() *Store {
	return &Store{
		now:        time.Now,
		products:   newTable[models.Product](),
		categories: newTable[models.Category](),
		cartItems:  newTable[models.CartItem](),
		orders:     newTable[models.Order](),
		orderItems: newTable[models.OrderItem](),
		users:      newTable[models.User](),
		wishlist:   newTable[models.WishlistItem](),
	}
}

// WithClock replaces the time source used for CreatedAt stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Products() *Products     { return &Products{s} }
func (s *Store) Categories() *Categories { return &Categories{s} }
func (s *Store) Carts() *Carts           { return &Carts{s} }
func (s *Store) Orders() *Orders         { return &Orders{s} }
func (s *Store) Users() *Users           { return &Users{s} }
func (s *Store) Wishlist() *Wishlist     { return &Wishlist{s} }

func (s *Store) stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = s.now()
	}
}

// table is an insertion-ordered map.
type table[T any] struct {
	rows map[string]T
	ids  []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) delete(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.ids = slices.DeleteFunc(t.ids, func(s string) bool { return s == id })
	return true
}

// all returns rows oldest first.
func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.rows[id])
	}
	return out
}

// newest returns rows newest first.
func (t *table[T]) newest() []T {
	out := t.all()
	slices.Reverse(out)
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, id := range t.ids {
		if v := t.rows[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
