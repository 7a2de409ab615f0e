package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Actor, error)
}

// Auth validates the bearer token and injects the resulting actor into the
// request context. Requests without a token pass through anonymously; the
// services decide which operations need an actor. An invalid token is
// rejected outright rather than downgraded to anonymous.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			actor, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeAuthError(w)
				return
			}
			ctx := ctxutil.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError rejects an invalid token with the same error envelope the
// REST handlers use, so clients see one error shape across the API.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := map[string]any{
		"error": map[string]string{
			"code":    "AUTH_MISSING",
			"message": "invalid access token",
		},
	}
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
