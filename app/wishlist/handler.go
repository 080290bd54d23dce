// Package wishlist lets a signed-in customer save products for later.
package wishlist

import (
	"context"
	"errors"
	"net/http"

	"github.com/lumiere-jewels/storefront/app/accounts"
	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

type WishlistStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error)
	AddItem(ctx context.Context, item *models.WishlistItem) error
	RemoveItem(ctx context.Context, id string) error
}

type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

type AddRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" validate:"required"`
}

type WishlistHandler struct {
	items    WishlistStore
	products ProductLookup
}

func NewWishlistHandler(items WishlistStore, products ProductLookup) *WishlistHandler {
	return &WishlistHandler{items: items, products: products}
}

// userID prefers the authenticated user over the one the client names.
func userID(r *http.Request, given string) (string, error) {
	if u, ok := accounts.UserFromContext(r.Context()); ok {
		return u.ID, nil
	}
	if given == "" {
		return "", models.NewValidationError("userId", "is required")
	}
	return given, nil
}

// HandleList serves GET /api/wishlist?userId=.
func (h *WishlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r, r.URL.Query().Get("userId"))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	items, err := h.items.ListByUser(r.Context(), id)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	web.WriteJSON(w, http.StatusOK, items)
}

// HandleAdd saves a product. Saving the same product twice returns the
// existing entry.
func (h *WishlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := web.Bind(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	id, err := userID(r, req.UserID)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	if _, err := h.products.GetByID(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = models.NewValidationError("productId", "product does not exist")
		}
		web.WriteServiceError(w, r, err)
		return
	}

	item := &models.WishlistItem{UserID: id, ProductID: req.ProductID}
	if err := h.items.AddItem(r.Context(), item); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, item)
}

func (h *WishlistHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.items.RemoveItem(r.Context(), r.PathValue("id")); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
