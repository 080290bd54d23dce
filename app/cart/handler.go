package cart

import (
	"context"
	"net/http"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

type CartService interface {
	List(ctx context.Context, owner models.CartOwner) ([]Line, error)
	Add(ctx context.Context, req AddRequest) (*Line, error)
	UpdateQuantity(ctx context.Context, id string, req UpdateRequest) (*Line, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context, owner models.CartOwner) error
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(s CartService) *CartHandler {
	return &CartHandler{service: s}
}

func ownerFromQuery(r *http.Request) models.CartOwner {
	q := r.URL.Query()
	return models.CartOwner{UserID: q.Get("userId"), SessionID: q.Get("sessionId")}
}

// HandleList serves GET /api/cart?userId=|sessionId=.
func (h *CartHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.List(r.Context(), ownerFromQuery(r))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	web.WriteJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	line, err := h.service.Add(r.Context(), req)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, line)
}

func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	line, err := h.service.UpdateQuantity(r.Context(), r.PathValue("id"), req)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, line)
}

func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), r.PathValue("id")); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear serves DELETE /api/cart?userId=|sessionId=.
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), ownerFromQuery(r)); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
