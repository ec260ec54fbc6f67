package handlers

import (
	"log/slog"
	nethttp "net/http"

	"github.com/unrolled/render"

	"github.com/preston-bernstein/courtside/internal/tablestore"
)

// Handler serves the REST API over a table store.
type Handler struct {
	store  tablestore.Store
	logger *slog.Logger
	render *render.Render
}

// NewHandler constructs a Handler with defaults.
func NewHandler(store tablestore.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
		render: render.New(),
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		h.writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down")
		return
	}
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness for traffic; it fails while the store is unreachable.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.store == nil {
		h.writeError(w, r, nethttp.StatusServiceUnavailable, "store not configured")
		return
	}
	if err := h.store.Ping(r.Context()); err != nil {
		loggerFromContext(r, h.logger).Warn("readiness check failed", "err", err)
		h.writeError(w, r, nethttp.StatusServiceUnavailable, "store unavailable")
		return
	}
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"})
}

// NotFound is the JSON fallback for unknown routes.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeError(w, r, nethttp.StatusNotFound, "not found")
}

// MethodNotAllowed is the JSON fallback for known routes with the wrong verb.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed")
}
