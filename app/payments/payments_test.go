package payments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumiere-jewels/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreateIntent(t *testing.T) {
	tests := []struct {
		name               string
		body               string
		expectedStatusCode int
		expectedCurrency   string
	}{
		{"Success", `{"amount": "244.98"}`, http.StatusOK, "usd"},
		{"Explicit currency", `{"amount": "10.00", "currency": "EUR"}`, http.StatusOK, "eur"},
		{"Zero amount", `{"amount": "0.00"}`, http.StatusBadRequest, ""},
		{"Missing amount", `{}`, http.StatusBadRequest, ""},
		{"Too many decimals", `{"amount": "1.999"}`, http.StatusBadRequest, ""},
		{"Bad currency", `{"amount": "1.00", "currency": "euro"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := NewPaymentHandler(StubGateway{})
			req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreateIntent(rec, req)

			// Assert
			assert.Equal(t, tt.expectedStatusCode, rec.Code)
			if tt.expectedStatusCode != http.StatusOK {
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.True(t, strings.HasPrefix(body["paymentIntentId"], "pi_"))
			assert.True(t, strings.HasPrefix(body["clientSecret"], body["paymentIntentId"]+"_secret_"))
			assert.Equal(t, tt.expectedCurrency, body["currency"])
		})
	}
}

func TestStubGatewayIssuesDistinctIntents(t *testing.T) {
	amount := models.MustMoney("5.00")

	a, err := StubGateway{}.CreateIntent(t.Context(), amount, "usd")
	require.NoError(t, err)
	b, err := StubGateway{}.CreateIntent(t.Context(), amount, "usd")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ClientSecret, b.ClientSecret)
	assert.Equal(t, "5.00", a.Amount.String())
}
