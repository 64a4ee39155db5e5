// Package site serves the dashboard page and its assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/painel/internal/ui"
	"github.com/okian/painel/pkg/logger"
)

// Error constants.
var (
	ErrTemplate = errors.New("dashboard template failed")
	ErrServe    = errors.New("dashboard serve failed")
)

const defaultTitle = "Painel de Empresas"

var page = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Option configures the root handler.
type Option func(*RootHandler)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(h *RootHandler) {
		if title != "" {
			h.title = title
		}
	}
}

// WithUpstream shows the upstream base URL on the page.
func WithUpstream(base string) Option {
	return func(h *RootHandler) { h.upstream = base }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *RootHandler) {
		if l != nil {
			h.log = l
		}
	}
}

// Register attaches the dashboard page and its assets to mux.
func Register(_ context.Context, mux *http.ServeMux, panel *ui.Panel, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.Handle("/", NewRootHandler(panel, opts...))
}

// RootHandler renders the dashboard page from the panel state.
type RootHandler struct {
	panel    *ui.Panel
	title    string
	upstream string
	log      logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(panel *ui.Panel, opts ...Option) *RootHandler {
	h := &RootHandler{panel: panel, title: defaultTitle, log: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type pageData struct {
	Title     string
	Upstream  string
	Endpoints []ui.Control
	Reports   []ui.Control
	Output    string
}

// ServeHTTP handles GET / and answers 404 for anything else under it.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	data := pageData{Title: h.title, Upstream: h.upstream, Output: h.panel.Output().Text()}
	for _, c := range h.panel.Controls() {
		switch c.Kind {
		case ui.KindEndpoint:
			data.Endpoints = append(data.Endpoints, c)
		case ui.KindReport:
			data.Reports = append(data.Reports, c)
		}
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		h.log.Error(r.Context(), "render dashboard", logger.Error(err))
		http.Error(w, fmt.Errorf("%w: %v", ErrTemplate, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
