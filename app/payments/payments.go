// Package payments issues payment intents. Only a stub gateway exists; it
// hands out identifiers without contacting a payment provider.
package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

const defaultCurrency = "usd"

type Intent struct {
	ID           string       `json:"paymentIntentId"`
	ClientSecret string       `json:"clientSecret"`
	Amount       models.Money `json:"amount"`
	Currency     string       `json:"currency"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, amount models.Money, currency string) (*Intent, error)
}

// StubGateway creates intents locally. Nothing is charged; an admin confirms
// orders that carry one of its ids.
type StubGateway struct{}

func (StubGateway) CreateIntent(_ context.Context, amount models.Money, currency string) (*Intent, error) {
	secret := make([]byte, 12)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("payment intent secret: %w", err)
	}
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + hex.EncodeToString(secret),
		Amount:       amount,
		Currency:     currency,
	}, nil
}

type IntentRequest struct {
	Amount   string `json:"amount" validate:"required,money"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
}

type PaymentHandler struct {
	gateway Gateway
}

func NewPaymentHandler(g Gateway) *PaymentHandler {
	return &PaymentHandler{gateway: g}
}

// HandleCreateIntent serves POST /api/create-payment-intent.
func (h *PaymentHandler) HandleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := web.Bind(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	amount := models.MustMoney(req.Amount)
	if !models.ZeroMoney.Less(amount) {
		web.WriteServiceError(w, r, models.NewValidationError("amount", "must be greater than 0"))
		return
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	intent, err := h.gateway.CreateIntent(r.Context(), amount, currency)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, intent)
}
