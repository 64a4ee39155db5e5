package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/painel/internal/ui"
	"github.com/okian/painel/pkg/logger"
)

const maxActionBody = 1 << 16

// actionRequest mirrors the OpenAPI schema for POST /api/acoes.
type actionRequest struct {
	Control string `json:"controle"`
	Socio   string `json:"socio"`
}

func (a actionRequest) validate() error {
	if strings.TrimSpace(a.Control) == "" {
		return errors.New("missing controle")
	}
	return nil
}

// ActionsHandler runs dashboard controls.
type ActionsHandler struct {
	dash Dashboard
	log  logger.Logger
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(dash Dashboard, log logger.Logger) *ActionsHandler {
	return &ActionsHandler{dash: dash, log: log}
}

// HandleAction handles POST /api/acoes. A control whose report fails still
// answers 200: the failure is part of what the dashboard displays.
func (h *ActionsHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	const op = "action"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}

	var req actionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.dash.Trigger(r.Context(), strings.TrimSpace(req.Control), ui.Input{Socio: req.Socio})
	if err != nil {
		h.log.Debug(r.Context(), "action rejected", logger.String("control", req.Control), logger.Error(err))
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
