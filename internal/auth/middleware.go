package auth

import (
	"net/http"
	"strings"

	"github.com/reactflix/reactflix-server/internal/httputil"
)

// RequireAdmin rejects requests that don't carry a valid admin bearer
// token.
func (s *TokenService) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" || !s.Verify(token) {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "admin token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
