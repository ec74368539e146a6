package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crease-labs/matchdesk/internal/logic"
	"github.com/crease-labs/matchdesk/internal/models"
	"github.com/crease-labs/matchdesk/internal/session"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint. Only configured backends are checked.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]bool{
		"registry": h.registry != nil && h.registry.Len() > 0,
	}
	if h.ch != nil {
		checks["clickhouse"] = h.ch.Ping(ctx) == nil
	}
	if h.redis != nil {
		checks["redis"] = h.redis.Ping(ctx).Err() == nil
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": h.audit.QueueDepth(),
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) sideParam(w http.ResponseWriter, r *http.Request) (models.Side, bool) {
	side, err := models.ParseSide(chi.URLParam(r, "side"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Side must be 1 or 2")
		return 0, false
	}
	return side, true
}

// sessionError maps the errors of a session event to a response.
func (h *Handler) sessionError(w http.ResponseWriter, id string, err error, effects []logic.Effect) {
	var verr *logic.ValidationError
	switch {
	case errors.Is(err, session.ErrNotFound):
		h.errorResponse(w, http.StatusNotFound, "Session not found")
	case errors.As(err, &verr):
		validationFailures.WithLabelValues(verr.Message).Inc()
		h.jsonResponse(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   verr.Message,
			"effects": logic.EffectList(effects),
		})
	case errors.Is(err, logic.ErrBusy):
		h.errorResponse(w, http.StatusConflict, "A prediction is already in progress")
	default:
		h.logger.Errorw("Session event failed", "session", id, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
