// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • X-Frame-Options           –  click-jacking defence
//   • Content-Security-Policy   –  locked down; the API serves JSON and one PNG
//   • Referrer-Policy           –  drops path/query from Referer
//
// Notes
// -----
// • Headers are added *after* next.ServeHTTP so handlers may set Content-Type
//   first; the middleware never overwrites an existing value.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		csp   = "default-src 'none'; img-src 'self'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		add := w.Header().Add // shorthand

		if w.Header().Get("Content-Security-Policy") == "" {
			add("Content-Security-Policy", csp)
		}
		if w.Header().Get("X-Frame-Options") == "" {
			add("X-Frame-Options", xfo)
		}
		if w.Header().Get("X-Content-Type-Options") == "" {
			add("X-Content-Type-Options", nosn)
		}
		if w.Header().Get("Referrer-Policy") == "" {
			add("Referrer-Policy", refer)
		}
	})
}
