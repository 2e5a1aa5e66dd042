// internal/web/handlers.go
//
// HTTP surface for the country mirror.
//
// Context
// -------
// Thin edge over the persistence gateway and the refresh pipeline.  All
// decision logic lives below; handlers translate query parameters, map the
// error taxonomy onto status codes, and keep response bodies stable:
//
//   *source.Unavailable → 503 {"error", "details"}
//   country.ErrNotFound → 404 {"error": "Country not found"}
//   bad query params    → 400 {"error": "Validation failed", "details": {…}}
//   anything else       → 500 {"error": "Internal server error"}

package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/atlas/internal/country"
	"github.com/yanizio/atlas/internal/source"
)

// Store is the slice of the persistence gateway the handlers need.
type Store interface {
	List(ctx context.Context, f country.Filter) ([]country.Record, error)
	FindByName(ctx context.Context, name string) (*country.Record, error)
	Remove(ctx context.Context, name string) error
	Status(ctx context.Context) (country.Status, error)
}

// RefreshRunner triggers one refresh cycle.
type RefreshRunner interface {
	Run(ctx context.Context) (int, error)
}

// Handler owns the /countries routes.
type Handler struct {
	store     Store
	refresher RefreshRunner
	imagePath string
	log       *zap.SugaredLogger
}

// NewHandler wires the handler's collaborators.  imagePath is the summary
// renderer's output file.
func NewHandler(store Store, refresher RefreshRunner, imagePath string, log *zap.SugaredLogger) *Handler {
	return &Handler{store: store, refresher: refresher, imagePath: imagePath, log: log}
}

// Routes mounts the HTTP surface.  Static segments (status, image, refresh)
// are declared alongside the {name} wildcard; chi gives them precedence.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/countries", func(r chi.Router) {
		r.Post("/refresh", h.refresh)
		r.Get("/status", h.status)
		r.Get("/image", h.image)
		r.Get("/", h.list)
		r.Get("/{name}", h.get)
		r.Delete("/{name}", h.remove)
	})
	return r
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.refresher.Run(r.Context())
	if err != nil {
		var ua *source.Unavailable
		if errors.As(err, &ua) {
			writeErrorDetails(w, http.StatusServiceUnavailable,
				"External data source unavailable",
				"Could not fetch data from "+ua.Source)
			return
		}
		h.log.Errorw("refresh failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Countries refreshed successfully",
		"count":   count,
	})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Status(r.Context())
	if err != nil {
		h.log.Errorw("status query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_countries":   st.Total,
		"last_refreshed_at": st.LastRefreshed,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, details := parseListQuery(r)
	if details != nil {
		writeErrorDetails(w, http.StatusBadRequest, "Validation failed", details)
		return
	}

	recs, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.log.Errorw("list query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.FindByName(r.Context(), pathName(r))
	switch {
	case errors.Is(err, country.ErrNotFound):
		writeError(w, http.StatusNotFound, "Country not found")
	case err != nil:
		h.log.Errorw("lookup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	err := h.store.Remove(r.Context(), pathName(r))
	switch {
	case errors.Is(err, country.ErrNotFound):
		writeError(w, http.StatusNotFound, "Country not found")
	case err != nil:
		h.log.Errorw("delete failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Country deleted successfully",
		})
	}
}

func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.imagePath); err != nil {
		writeError(w, http.StatusNotFound, "Summary image not found")
		return
	}
	http.ServeFile(w, r, h.imagePath)
}

// pathName extracts the {name} segment, un-escaping so names with spaces
// ("Costa Rica") round-trip.
func pathName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
