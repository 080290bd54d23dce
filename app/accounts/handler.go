package accounts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

type AccountHandler struct {
	service AccountService
}

func NewAccountHandler(s AccountService) *AccountHandler {
	return &AccountHandler{service: s}
}

// HandleRegister serves POST /api/register. A duplicate email or username
// is a 400.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if errors.Is(err, models.ErrConflict) {
		web.WriteError(w, http.StatusBadRequest, web.PublicMessage(err, models.ErrConflict))
		return
	}
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, res)
}

func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, res)
}

// HandleCurrentUser serves GET /api/user for a bearer token.
func (h *AccountHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	token, ok := BearerToken(r)
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Authorization header is missing")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, user)
}

// HandleGuestSession serves POST /api/session, issuing an id that keys an
// anonymous cart.
func (h *AccountHandler) HandleGuestSession(w http.ResponseWriter, r *http.Request) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, map[string]string{"sessionId": "guest_" + hex.EncodeToString(b)})
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
