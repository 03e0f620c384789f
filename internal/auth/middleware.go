package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/meenagpt/chat-service/internal/api/respond"
)

type contextKey struct{}

// IdentityFromContext returns the authenticated identity set by Middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}

// ExtractToken pulls the session token from the Authorization header.
// Both "Bearer <token>" and a bare "<token>" are accepted.
func ExtractToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrNoToken
	}
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), nil
	}
	return h, nil
}

// Middleware verifies the session token and attaches the caller identity to
// the request context. Failure terminates the request with 401; downstream
// handlers never run.
func Middleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := ExtractToken(r)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, "no token provided")
				return
			}
			id, err := issuer.Verify(tok)
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
		})
	}
}
