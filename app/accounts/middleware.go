package accounts

import (
	"context"
	"errors"
	"net/http"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

type ctxKey struct{}

// UserFromContext returns the user attached by Authenticate, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// Authenticate attaches the bearer token's user to the request context.
// Requests without a valid token pass through anonymously, so public routes
// keep working with a stale token and protected ones reject it later.
func Authenticate(s AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := s.CurrentUser(r.Context(), token)
			if errors.Is(err, models.ErrUnauthorized) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				web.WriteServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin allows only requests authenticated as an admin.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin {
			web.WriteError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}
