package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/auth-smoke/internal/auth"
	"github.com/hongminglow/auth-smoke/internal/http/respond"
)

type claimsKey struct{}

// RequireBearer rejects requests without a valid "Authorization: Bearer" token
// and stores the verified claims on the request context.
func RequireBearer(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, err := tokens.Verify(raw)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// ClaimsFrom returns the claims stored by RequireBearer.
func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
