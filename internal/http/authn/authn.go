// Package authn resolves the bearer token of a request to the signed-in user.
package authn

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
)

type Verifier interface {
	Verify(token string) (*auth.User, error)
}

type ctxKey struct{}

// Middleware rejects requests without a valid bearer token with 401.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func User(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*auth.User)
	return user, ok && user != nil
}

// OwnerID is the id of the signed-in user, uuid.Nil outside Middleware.
func OwnerID(r *http.Request) uuid.UUID {
	if user, ok := User(r.Context()); ok {
		return user.ID
	}

	return uuid.Nil
}
