package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Service ---

type MockOrderService struct {
	Orders []models.Order
	Err    error

	lastUserID   string
	lastID       string
	lastStatus   string
	lastRequest  PlaceOrderRequest
	lastCheckout CheckoutRequest
}

func (m *MockOrderService) CreateOrder(_ context.Context, req PlaceOrderRequest) (*models.Order, error) {
	m.lastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Order{ID: "order-1", Status: models.OrderStatusPending, Total: models.MustMoney(req.Order.Total)}, nil
}

func (m *MockOrderService) GetOrders(_ context.Context, userID string) ([]models.Order, error) {
	m.lastUserID = userID
	return m.Orders, m.Err
}

func (m *MockOrderService) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	m.lastID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for _, o := range m.Orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (m *MockOrderService) UpdateOrderStatus(_ context.Context, id, status string) (*models.Order, error) {
	m.lastID, m.lastStatus = id, status
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Order{ID: id, Status: models.OrderStatus(status)}, nil
}

func (m *MockOrderService) Checkout(_ context.Context, req CheckoutRequest) (*models.Order, error) {
	m.lastCheckout = req
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Order{ID: "order-2", Total: models.MustMoney("244.98")}, nil
}

func (m *MockOrderService) Stats(context.Context) (*Stats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &Stats{Total: 1, ByStatus: map[models.OrderStatus]int{models.OrderStatusPending: 1}}, nil
}

const validOrderBody = `{
	"order": {
		"customerEmail": "ada@example.com",
		"customerName": "Ada",
		"shippingAddress": {"line1": "1 Main St", "city": "Leeds", "state": "WY", "postalCode": "LS1", "country": "GB"},
		"total": "244.98"
	},
	"items": [
		{"productId": "p1", "productName": "Ring", "productPrice": "89.99", "quantity": 2},
		{"productId": "p2", "productName": "Necklace", "productPrice": "65.00", "quantity": 1}
	]
}`

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) web.ErrorBody {
	t.Helper()
	var body web.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleCreate(t *testing.T) {
	tests := []struct {
		name               string
		body               string
		serviceErr         error
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, m *MockOrderService)
	}{
		{
			name:               "Success",
			body:               validOrderBody,
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, m *MockOrderService) {
				var order models.Order
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
				assert.Equal(t, "order-1", order.ID)
				assert.Equal(t, "244.98", order.Total.String())
				assert.Len(t, m.lastRequest.Items, 2)
				assert.Equal(t, "Leeds", m.lastRequest.Order.ShippingAddress.City)
			},
		},
		{
			name:               "Malformed JSON",
			body:               `{"order": `,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockOrderService) {
				body := decodeError(t, rec)
				assert.Contains(t, body.Fields, "body")
			},
		},
		{
			name:               "Validation error from service",
			body:               validOrderBody,
			serviceErr:         models.NewValidationError("items", "must have at least 1 entries"),
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockOrderService) {
				body := decodeError(t, rec)
				assert.Equal(t, "must have at least 1 entries", body.Fields["items"])
			},
		},
		{
			name:               "Store failure",
			body:               validOrderBody,
			serviceErr:         &models.PersistenceError{Op: "create order", Err: errors.New("db down")},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockOrderService) {
				body := decodeError(t, rec)
				assert.Equal(t, "internal server error", body.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mock := &MockOrderService{Err: tt.serviceErr}
			handler := NewOrderHandler(mock)
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tt.expectedStatusCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			tt.checkResponse(t, rec, mock)
		})
	}
}

func TestHandleList(t *testing.T) {
	// Arrange
	mock := &MockOrderService{Orders: []models.Order{{ID: "a"}, {ID: "b"}}}
	handler := NewOrderHandler(mock)
	req := httptest.NewRequest(http.MethodGet, "/api/orders?userId=user-7", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.HandleList(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", mock.lastUserID)
	var orders []models.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
	assert.Len(t, orders, 2)
}

func TestHandleListEmptyIsArray(t *testing.T) {
	handler := NewOrderHandler(&MockOrderService{})
	rec := httptest.NewRecorder()

	handler.HandleList(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleGet(t *testing.T) {
	tests := []struct {
		name               string
		id                 string
		expectedStatusCode int
	}{
		{"Found", "a", http.StatusOK},
		{"Not found", "zzz", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockOrderService{Orders: []models.Order{{ID: "a"}}}
			handler := NewOrderHandler(mock)
			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()

			handler.HandleGet(rec, req)

			assert.Equal(t, tt.expectedStatusCode, rec.Code)
			assert.Equal(t, tt.id, mock.lastID)
			if tt.expectedStatusCode == http.StatusNotFound {
				assert.Equal(t, "Order not found", decodeError(t, rec).Message)
			}
		})
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	tests := []struct {
		name               string
		body               string
		serviceErr         error
		expectedStatusCode int
	}{
		{"Success", `{"status": "shipped"}`, nil, http.StatusOK},
		{"Unknown status", `{"status": "teleported"}`, nil, http.StatusBadRequest},
		{"Missing status", `{}`, nil, http.StatusBadRequest},
		{"Unknown order", `{"status": "shipped"}`, models.ErrOrderNotFound, http.StatusNotFound},
		{"Invalid transition", `{"status": "pending"}`, ErrInvalidTransition, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mock := &MockOrderService{Err: tt.serviceErr}
			handler := NewOrderHandler(mock)
			req := httptest.NewRequest(http.MethodPut, "/api/orders/o-1/status", strings.NewReader(tt.body))
			req.SetPathValue("id", "o-1")
			rec := httptest.NewRecorder()

			// Act
			handler.HandleUpdateStatus(rec, req)

			// Assert
			assert.Equal(t, tt.expectedStatusCode, rec.Code)
			if tt.expectedStatusCode == http.StatusOK {
				assert.Equal(t, "o-1", mock.lastID)
				assert.Equal(t, "shipped", mock.lastStatus)
			}
		})
	}
}

func TestHandleCheckout(t *testing.T) {
	mock := &MockOrderService{}
	handler := NewOrderHandler(mock)
	body := `{"sessionId": "sess-9", "customerEmail": "g@example.com", "customerName": "G",
		"shippingAddress": {"line1": "1 Main St", "city": "Leeds", "state": "WY", "postalCode": "LS1", "country": "GB"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCheckout(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.CartOwner{SessionID: "sess-9"}, mock.lastCheckout.Owner())
}

func TestHandleStats(t *testing.T) {
	handler := NewOrderHandler(&MockOrderService{})
	rec := httptest.NewRecorder()

	handler.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/api/orders/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total": 1, "byStatus": {"pending": 1}}`, rec.Body.String())
}
