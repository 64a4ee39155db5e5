package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/painel/internal/ui"
	"github.com/okian/painel/pkg/metrics"
)

// HealthHandler answers liveness checks and serves the metrics registry.
type HealthHandler struct {
	panel    *ui.Panel
	upstream string
	started  time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(panel *ui.Panel, upstream string) *HealthHandler {
	return &HealthHandler{panel: panel, upstream: upstream, started: time.Now()}
}

type healthResponse struct {
	Status    string `json:"status"`
	Upstream  string `json:"upstream,omitempty"`
	Endpoints int    `json:"endpoints"`
	Controls  int    `json:"controles"`
	Uptime    string `json:"uptime"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "health", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Upstream:  h.upstream,
		Endpoints: len(h.panel.Endpoints()),
		Controls:  len(h.panel.Controls()),
		Uptime:    time.Since(h.started).Truncate(time.Second).String(),
	})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
