package security

import (
	"net/http"
	"slices"
	"strings"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Content-Type", "X-Request-ID"}
)

// CORS answers preflight requests and sets Access-Control headers for the
// configured origins. "*" allows any origin.
type CORS struct {
	allowed []string
	any     bool
}

func NewCORS(allowedOrigins []string) *CORS {
	return &CORS{
		allowed: allowedOrigins,
		any:     slices.Contains(allowedOrigins, "*"),
	}
}

// Middleware must wrap the router so OPTIONS requests are answered before
// route matching.
func (c *CORS) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowOrigin := c.allowOrigin(origin); allowOrigin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowOrigin)
			h.Set("Access-Control-Allow-Methods", strings.Join(corsMethods, ", "))
			h.Set("Access-Control-Allow-Headers", strings.Join(corsHeaders, ", "))
			h.Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
			if allowOrigin != "*" {
				h.Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *CORS) allowOrigin(origin string) string {
	if c.any {
		return "*"
	}
	if origin != "" && slices.Contains(c.allowed, origin) {
		return origin
	}
	return ""
}
