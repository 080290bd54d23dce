// Package server assembles the storefront's HTTP surface: the route table,
// the middleware chain and the listen/shutdown loop.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/lumiere-jewels/storefront/app/accounts"
	"github.com/lumiere-jewels/storefront/app/cart"
	"github.com/lumiere-jewels/storefront/app/catalog"
	"github.com/lumiere-jewels/storefront/app/categories"
	"github.com/lumiere-jewels/storefront/app/orders"
	"github.com/lumiere-jewels/storefront/app/payments"
	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/app/wishlist"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Feed streams order events to admin dashboards.
type Feed interface {
	HandleFeed(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Store      Pinger
	Accounts   accounts.AccountService
	Products   *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Cart       *cart.CartHandler
	Orders     *orders.OrderHandler
	Wishlist   *wishlist.WishlistHandler
	Payments   *payments.PaymentHandler
	Feed       Feed
	// EnforceAdmin guards catalog writes and order administration.
	EnforceAdmin bool
}

// NewRouter returns the fully wrapped handler for the API.
func NewRouter(d Deps) http.Handler {
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		if d.EnforceAdmin {
			return accounts.RequireAdmin(h)
		}
		return h
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth(d.Store))

	acc := accounts.NewAccountHandler(d.Accounts)
	mux.HandleFunc("POST /api/register", acc.HandleRegister)
	mux.HandleFunc("POST /api/login", acc.HandleLogin)
	mux.HandleFunc("GET /api/user", acc.HandleCurrentUser)
	mux.HandleFunc("POST /api/session", acc.HandleGuestSession)

	mux.HandleFunc("GET /api/products", d.Products.HandleGet)
	mux.HandleFunc("GET /api/products/featured", d.Products.HandleGetFeatured)
	mux.HandleFunc("GET /api/products/export", admin(d.Products.HandleExport))
	mux.HandleFunc("GET /api/products/{slug}", d.Products.HandleGetProduct)
	mux.HandleFunc("POST /api/products", admin(d.Products.HandleCreate))
	mux.HandleFunc("POST /api/products/import", admin(d.Products.HandleImport))
	mux.HandleFunc("PUT /api/products/{id}", admin(d.Products.HandleUpdate))
	mux.HandleFunc("DELETE /api/products/{id}", admin(d.Products.HandleDelete))

	mux.HandleFunc("GET /api/categories", d.Categories.HandleGetAll)
	mux.HandleFunc("GET /api/categories/{slug}", d.Categories.HandleGet)
	mux.HandleFunc("POST /api/categories", admin(d.Categories.HandleCreate))
	mux.HandleFunc("PUT /api/categories/{id}", admin(d.Categories.HandleUpdate))
	mux.HandleFunc("DELETE /api/categories/{id}", admin(d.Categories.HandleDelete))

	mux.HandleFunc("GET /api/cart", d.Cart.HandleList)
	mux.HandleFunc("POST /api/cart", d.Cart.HandleAdd)
	mux.HandleFunc("DELETE /api/cart", d.Cart.HandleClear)
	mux.HandleFunc("PUT /api/cart/{id}", d.Cart.HandleUpdate)
	mux.HandleFunc("DELETE /api/cart/{id}", d.Cart.HandleRemove)
	mux.HandleFunc("POST /api/cart/checkout", d.Orders.HandleCheckout)

	mux.HandleFunc("GET /api/orders", d.Orders.HandleList)
	mux.HandleFunc("POST /api/orders", d.Orders.HandleCreate)
	mux.HandleFunc("GET /api/orders/stats", admin(d.Orders.HandleStats))
	if d.Feed != nil {
		mux.HandleFunc("GET /api/orders/feed", admin(d.Feed.HandleFeed))
	}
	mux.HandleFunc("GET /api/orders/{id}", d.Orders.HandleGet)
	mux.HandleFunc("PUT /api/orders/{id}/status", admin(d.Orders.HandleUpdateStatus))

	mux.HandleFunc("GET /api/wishlist", d.Wishlist.HandleList)
	mux.HandleFunc("POST /api/wishlist", d.Wishlist.HandleAdd)
	mux.HandleFunc("DELETE /api/wishlist/{id}", d.Wishlist.HandleRemove)

	mux.HandleFunc("POST /api/create-payment-intent", d.Payments.HandleCreateIntent)

	var h http.Handler = JSONErrorsMiddleware(mux)
	h = accounts.Authenticate(d.Accounts)(h)
	h = RecoverMiddleware(h)
	h = SecurityHeadersMiddleware(h)
	return LoggingMiddleware(h)
}

func handleHealth(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			web.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
