// internal/web/respond.go
//
// Tiny JSON response helpers shared by the handlers.  Error bodies follow
// the service's fixed taxonomy: `{"error": ...}` with an optional `details`
// payload, never a bare string.

package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeErrorDetails(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, map[string]any{"error": msg, "details": details})
}
