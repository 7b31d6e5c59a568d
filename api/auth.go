package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose verified token is missing, invalid or
// has no subject. It expects jwtauth.Verifier earlier in the chain.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized", err)
			return
		}
		if token == nil || token.Subject() == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userIDFromContext returns the token subject, or "" when auth is off.
func userIDFromContext(ctx context.Context) string {
	token, _, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return ""
	}
	return token.Subject()
}
