package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bonselink/inspections/internal/http/response"
	"github.com/bonselink/inspections/internal/platform/auth"
	"github.com/bonselink/inspections/pkg/logger"
)

type ctxKey string

const ctxEmail ctxKey = "email"

// RequireAuth rejects requests without a bearer token with 401 and requests
// with an invalid or expired one with 403. The split matters: the client reacts
// to 403 by attempting a token refresh.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing authorization header")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			email, err := tokens.VerifyAccess(raw)
			if err != nil {
				response.Forbidden(w, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxEmail, email)
			ctx = context.WithValue(ctx, logger.UserEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithEmail injects an authenticated identity the way RequireAuth does.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxEmail, email)
}

// Email returns the authenticated identity set by RequireAuth.
func Email(r *http.Request) string {
	if v, ok := r.Context().Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}
