// Package api declares the dashboard HTTP contracts and route registration.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/painel/internal/domain/empresa"
	"github.com/okian/painel/internal/ui"
	"github.com/okian/painel/pkg/logger"
)

// Dashboard is what the handlers need from the bound dashboard.
type Dashboard interface {
	Panel() *ui.Panel
	Trigger(ctx context.Context, id string, in ui.Input) (ui.Outcome, error)
}

// MonthlyCounter produces the data behind the monthly chart.
type MonthlyCounter interface {
	CountActiveByMonth(ctx context.Context) (*empresa.Counts, error)
}

// Server wires the HTTP routes of the dashboard API.
type Server struct {
	health  *HealthHandler
	actions *ActionsHandler
	panel   *PanelHandler
	chart   *ChartHandler
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	log      logger.Logger
	upstream string
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithUpstream reports the upstream base URL in the health response.
func WithUpstream(base string) Option {
	return func(o *serverOptions) { o.upstream = base }
}

// NewServer creates the API server with all handlers.
func NewServer(dash Dashboard, counter MonthlyCounter, opts ...Option) *Server {
	o := serverOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		health:  NewHealthHandler(dash.Panel(), o.upstream),
		actions: NewActionsHandler(dash, o.log),
		panel:   NewPanelHandler(dash.Panel()),
		chart:   NewChartHandler(counter, o.log),
	}
}

// Register attaches all API routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.health.MetricsHandler())
	mux.HandleFunc("/api/acoes", MetricsMiddleware(s.actions.HandleAction, "acoes"))
	mux.HandleFunc("/api/controles", MetricsMiddleware(s.panel.HandleControls, "controles"))
	mux.HandleFunc("/api/endpoints", MetricsMiddleware(s.panel.HandleEndpoints, "endpoints"))
	mux.HandleFunc("/api/saida", MetricsMiddleware(s.panel.HandleOutput, "saida"))
	mux.HandleFunc("/api/graficos/contagem-mensal.png", MetricsMiddleware(s.chart.HandleMonthlyChart, "grafico_mensal"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an error kind to an HTTP status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound), errors.Is(err, ui.ErrUnknownControl):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, op, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, NewKind(op, ErrMethodNotAllowed))
	return false
}
