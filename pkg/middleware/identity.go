package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "bookable/pkg/errors"
)

const identityKey contextKey = "identity"

// IdentityHeader carries the verified caller identity (an opaque email).
// Verification happens upstream at the gateway; this process trusts the
// header and only propagates it.
const IdentityHeader = "X-Identity"

// Identity stores the caller identity, when present, in the request context.
// Routes that require a caller use IdentityFrom and reject its absence;
// public routes simply never look.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := strings.TrimSpace(r.Header.Get(IdentityHeader)); id != "" {
				ctx := context.WithValue(r.Context(), identityKey, strings.ToLower(id))
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFrom returns the verified caller identity or Unauthorized.
func IdentityFrom(ctx context.Context) (string, error) {
	if id, ok := ctx.Value(identityKey).(string); ok && id != "" {
		return id, nil
	}
	return "", apperrors.Unauthorized("A verified identity is required")
}
