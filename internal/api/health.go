package api

import (
	"net/http"
	"time"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler { return &HealthHandler{store: st} }

// serviceIsHealthy reports the aggregated checker state; run.go injects the
// real function at startup. Until then the service reports unhealthy.
var serviceIsHealthy = func() bool { return false }

// BindServiceHealth allows run.go to inject the service health function.
func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// CheckHealth handles GET /health.
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckStorageHealth handles GET /health/db with a live database probe.
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Schema(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
