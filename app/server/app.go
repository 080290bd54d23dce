package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lumiere-jewels/storefront/app/accounts"
	"github.com/lumiere-jewels/storefront/app/cart"
	"github.com/lumiere-jewels/storefront/app/catalog"
	"github.com/lumiere-jewels/storefront/app/categories"
	"github.com/lumiere-jewels/storefront/app/config"
	"github.com/lumiere-jewels/storefront/app/notify"
	"github.com/lumiere-jewels/storefront/app/orders"
	"github.com/lumiere-jewels/storefront/app/payments"
	"github.com/lumiere-jewels/storefront/app/store"
	"github.com/lumiere-jewels/storefront/app/wishlist"
	"github.com/lumiere-jewels/storefront/models"
)

// App is the wired storefront. Callers own Store and must Close the app
// after the HTTP server has stopped.
type App struct {
	Handler    http.Handler
	Accounts   *accounts.Service
	Catalog    *catalog.Service
	Orders     *orders.Engine
	Dispatcher *notify.Dispatcher
	Hub        *notify.Hub
}

// NewApp wires every service on top of st.
func NewApp(cfg *config.Config, st *store.Store, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var products catalog.ProductStore = st.Products
	if cfg.CatalogCacheSize > 0 {
		cached, err := catalog.NewCachedProducts(st.Products, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
		if err != nil {
			return nil, err
		}
		products = cached
	}

	shipping, err := shippingPolicy(cfg.Shipping)
	if err != nil {
		return nil, err
	}

	var mailer notify.Mailer = notify.NewLogMailer(logger)
	if cfg.Mail.Driver == "smtp" {
		mailer = notify.NewSMTPMailer(cfg.Mail.Addr, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}
	hub := notify.NewHub(logger)
	dispatcher := notify.NewDispatcher(mailer, hub, cfg.Mail.Timeout, logger)

	// Orders resolve live prices, so the engine reads the store directly.
	engine := orders.NewEngine(orders.Deps{
		Orders:   st.Orders,
		Products: st.Products,
		Carts:    st.Carts,
		Notifier: dispatcher,
		Shipping: shipping,
		Logger:   logger,
	})
	accountService := accounts.NewService(st.Users, accounts.BcryptHasher{}, accounts.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	catalogService := catalog.NewService(products, st.Categories)

	handler := NewRouter(Deps{
		Store:        st,
		Accounts:     accountService,
		Products:     catalog.NewCatalogHandler(catalogService),
		Categories:   categories.NewCategoryHandler(st.Categories),
		Cart:         cart.NewCartHandler(cart.NewAggregator(st.Carts, products)),
		Orders:       orders.NewOrderHandler(engine),
		Wishlist:     wishlist.NewWishlistHandler(st.Wishlist, products),
		Payments:     payments.NewPaymentHandler(payments.StubGateway{}),
		Feed:         hub,
		EnforceAdmin: cfg.Auth.EnforceAdmin,
	})

	return &App{
		Handler:    handler,
		Accounts:   accountService,
		Catalog:    catalogService,
		Orders:     engine,
		Dispatcher: dispatcher,
		Hub:        hub,
	}, nil
}

// Close waits for in-flight notifications and disconnects feed clients.
func (a *App) Close(ctx context.Context) error {
	err := a.Dispatcher.Wait(ctx)
	a.Hub.Close()
	if err != nil {
		return fmt.Errorf("wait for notifications: %w", err)
	}
	return nil
}

func shippingPolicy(s config.Shipping) (orders.ShippingPolicy, error) {
	flat, err := models.ParseMoney(s.FlatRate)
	if err != nil {
		return orders.ShippingPolicy{}, fmt.Errorf("shipping flat rate: %w", err)
	}
	policy := orders.ShippingPolicy{FlatRate: flat}
	if s.FreeOver != "" {
		over, err := models.ParseMoney(s.FreeOver)
		if err != nil {
			return orders.ShippingPolicy{}, fmt.Errorf("free shipping threshold: %w", err)
		}
		policy.FreeOver = &over
	}
	return policy, nil
}
