package api

import (
	"net/http"

	"github.com/okian/painel/internal/ui"
)

// PanelHandler exposes the dashboard state.
type PanelHandler struct {
	panel *ui.Panel
}

// NewPanelHandler creates a new panel handler.
func NewPanelHandler(panel *ui.Panel) *PanelHandler {
	return &PanelHandler{panel: panel}
}

// HandleControls handles GET /api/controles.
func (h *PanelHandler) HandleControls(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "controls", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.panel.Controls())
}

// HandleEndpoints handles GET /api/endpoints.
func (h *PanelHandler) HandleEndpoints(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "endpoints", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.panel.Endpoints())
}

// HandleOutput handles GET /api/saida.
func (h *PanelHandler) HandleOutput(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "output", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.panel.Output().Snapshot())
}
