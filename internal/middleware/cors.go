// Package middleware provides HTTP middleware for the Ikigai API.
package middleware

import (
	"net/http"
	"strings"
)

// CORS returns middleware that handles CORS headers.
// exposed lists response headers browser scripts may read.
func CORS(allowedOrigins []string, exposed ...string) func(http.Handler) http.Handler {
	exposeHeader := strings.Join(exposed, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed, explicit := false, false
			for _, o := range allowedOrigins {
				if o == origin && origin != "" {
					allowed, explicit = true, true
					break
				}
				if o == "*" {
					allowed = true
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				if exposeHeader != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposeHeader)
				}
				// Only allow credentials for explicit origins, not wildcard matches.
				if explicit {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
