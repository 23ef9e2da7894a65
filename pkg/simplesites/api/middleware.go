package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/render"
)

// APIKeyHeader carries the shared secret on every request.
const APIKeyHeader = "api-key"

// RequireAPIKey rejects requests whose api-key header does not equal the
// configured shared secret. The comparison is constant-time and a failed
// check produces no side effects beyond the 401 response.
func RequireAPIKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, ErrorResponse{Error: "invalid or missing api key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
