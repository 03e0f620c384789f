package api

import (
	"context"
	"net/http"
	"time"

	"github.com/meenagpt/chat-service/internal/api/respond"
	"github.com/meenagpt/chat-service/internal/store"
)

// HealthHandler reports service liveness and store connectivity.
type HealthHandler struct {
	pinger store.HealthPinger
}

func NewHealthHandler(p store.HealthPinger) *HealthHandler { return &HealthHandler{pinger: p} }

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.HealthPing(ctx); err != nil {
			status = "unhealthy"
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
