package middleware

import "net/http"

const hstsValue = "max-age=31536000; includeSubDomains"

// SecurityHeaders sets the browser hardening headers on every response.
// Strict-Transport-Security is only sent when hsts is true, which the server
// enables in production where TLS is terminated in front of it.
func SecurityHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			next.ServeHTTP(w, r)
		})
	}
}
