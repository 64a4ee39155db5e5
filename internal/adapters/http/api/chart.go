package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/painel/internal/report"
	"github.com/okian/painel/pkg/logger"
)

// ChartHandler serves report charts.
type ChartHandler struct {
	counter MonthlyCounter
	log     logger.Logger
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(counter MonthlyCounter, log logger.Logger) *ChartHandler {
	return &ChartHandler{counter: counter, log: log}
}

// HandleMonthlyChart handles GET /api/graficos/contagem-mensal.png.
func (h *ChartHandler) HandleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	const op = "monthly chart"
	if !allowMethod(w, r, op, http.MethodGet) {
		return
	}

	counts, err := h.counter.CountActiveByMonth(r.Context())
	if err != nil {
		writeError(w, WrapKind(op, ErrUpstream, err))
		return
	}
	png, err := report.RenderMonthlyChart(counts)
	switch {
	case errors.Is(err, report.ErrNoData):
		writeError(w, WrapKind(op, ErrNotFound, err))
		return
	case err != nil:
		h.log.Error(r.Context(), "chart render failed", logger.Error(err))
		writeError(w, WrapKind(op, ErrRender, err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
