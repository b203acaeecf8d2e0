package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	return c, ok
}

// WithBearer verifies the Authorization header and stores the claims on the
// request context. When required is false, requests without a token pass
// through unauthenticated; a token that is present is still verified.
func WithBearer(issuer *Issuer, required bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if required {
					httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}
			claims, err := issuer.Verify(token)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// RequireCapability gates a route on a role capability. With enforcement off
// it is a pass-through, matching the open deployment mode.
func RequireCapability(enforce bool, allowed func(model.Role) bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enforce {
				next.ServeHTTP(w, r)
				return
			}
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !allowed(claims.Role) {
				httpx.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
