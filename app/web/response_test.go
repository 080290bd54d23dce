package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumiere-jewels/storefront/models"
	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			"Validation",
			models.NewValidationError("price", "is required"),
			http.StatusBadRequest,
			`{"message": "validation failed: price is required", "fields": {"price": "is required"}}`,
		},
		{"Not found", models.ErrProductNotFound, http.StatusNotFound, `{"message": "Product not found"}`},
		{"Wrapped not found", fmt.Errorf("load: %w", models.ErrOrderNotFound), http.StatusNotFound, `{"message": "Load: order not found"}`},
		{"Conflict", fmt.Errorf("slug %q: %w", "gold-band", models.ErrConflict), http.StatusConflict, `{"message": "Slug \"gold-band\""}`},
		{"Bare unauthorized", models.ErrUnauthorized, http.StatusUnauthorized, `{"message": "Unauthorized"}`},
		{"Forbidden", models.ErrForbidden, http.StatusForbidden, `{"message": "Forbidden"}`},
		{
			"Persistence hides detail",
			&models.PersistenceError{Op: "create order", Err: errors.New("connection reset")},
			http.StatusInternalServerError,
			`{"message": "internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)

			// Act
			WriteServiceError(rec, req, tt.err)

			// Assert
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestBind(t *testing.T) {
	type payload struct {
		Name  string `json:"name" validate:"required"`
		Price string `json:"price" validate:"required,money"`
	}

	tests := []struct {
		name          string
		body          string
		expectedField string
		expectedMsg   string
	}{
		{"Valid", `{"name": "Ring", "price": "10.00", "extra": true}`, "", ""},
		{"Empty body", ``, "body", "request body is empty"},
		{"Malformed", `{"name": `, "body", ""},
		{"Wrong type", `{"name": 5, "price": "1.00"}`, "body", `field "name" must be string`},
		{"Fails validation", `{"name": "Ring"}`, "price", "is required"},
		{"Price out of range", `{"name": "Ring", "price": "99999999999.99"}`, "price", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload

			err := Bind(req, &p)

			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *models.ValidationError
			if assert.True(t, errors.As(err, &ve), "got %v", err) {
				assert.Contains(t, ve.Fields, tt.expectedField)
				if tt.expectedMsg != "" {
					assert.Equal(t, tt.expectedMsg, ve.Fields[tt.expectedField])
				}
			}
		})
	}
}
