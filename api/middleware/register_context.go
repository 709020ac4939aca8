package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterContext copies the {registerID} route param into the request
// context so handlers and the idempotency scope can read it without
// re-parsing the URL.
func RegisterContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := strings.TrimSpace(chi.URLParam(r, "registerID")); id != "" {
				r = r.WithContext(WithRegisterID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
