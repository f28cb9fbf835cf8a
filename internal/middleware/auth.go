package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tasklift/tasklift/internal/ctxkeys"
	"github.com/tasklift/tasklift/internal/service"
)

// RequireAuth resolves the Authorization bearer token to a user and puts
// the user plus the raw token into the request context. Missing, malformed,
// revoked or otherwise invalid tokens all get the same 401 body.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			user, err := authService.Authenticate(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithToken(ctx, token)
			next(w, r.WithContext(ctx))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "please authenticate"})
}
