package handlers

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/courtside/internal/http/middleware"
	"github.com/preston-bernstein/courtside/internal/http/requestutil"
	"github.com/preston-bernstein/courtside/internal/logging"
)

type okResponse struct {
	OK    bool `json:"ok"`
	Count *int `json:"count,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := h.render.JSON(w, status, payload); err != nil {
		logging.Error(h.logger, "failed to encode response", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	h.writeJSON(w, status, body)
}

func (h *Handler) writeOK(w http.ResponseWriter) {
	h.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) writeCreated(w http.ResponseWriter, count int) {
	h.writeJSON(w, http.StatusCreated, okResponse{OK: true, Count: &count})
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	if logger := logging.FromContext(r.Context(), fallback); logger != nil {
		return logger
	}
	return slog.Default()
}
