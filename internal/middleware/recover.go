// internal/middleware/recover.go
//
// Panic recovery.  Uncaught panics become a generic 500 JSON body instead
// of a dropped connection; the stack is logged, never leaked to the caller.

package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Recover converts handler panics into 500 responses.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.S().Errorw("handler panic",
					"path", r.URL.Path,
					"panic", rec,
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
