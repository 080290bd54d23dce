package orders

import (
	"context"
	"net/http"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
	Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

type OrderHandler struct {
	service OrderService
}

func NewOrderHandler(s OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// HandleList serves GET /api/orders?userId=.
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetOrders(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrderByID(r.Context(), r.PathValue("id"))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

// HandleCreate serves POST /api/orders with an {order, items} body.
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdateRequest
	if err := web.Bind(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

// HandleCheckout serves POST /api/cart/checkout.
func (h *OrderHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	order, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stats)
}
