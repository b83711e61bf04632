package middleware

import (
	"net/http"

	"github.com/samber/lo"
)

const (
	corsAllowHeaders  = "Content-Type, X-Locale, X-Request-ID"
	corsAllowMethods  = "GET,POST,OPTIONS"
	corsExposeHeaders = "X-Request-ID"
)

// CORS allows the listed origins; "*" allows any origin without credentials.
// Embeds are served cross-origin so the widget page must be fetchable from host sites.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := lo.Contains(allowedOrigins, "*")
	allow := lo.SliceToMap(allowedOrigins, func(o string) (string, struct{}) {
		return o, struct{}{}
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				h := w.Header()
				if _, ok := allow[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Credentials", "true")
				} else if wildcard {
					h.Set("Access-Control-Allow-Origin", "*")
				}
				if h.Get("Access-Control-Allow-Origin") != "" {
					h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					h.Set("Access-Control-Allow-Methods", corsAllowMethods)
					h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
