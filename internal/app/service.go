// Package service wires the dashboard together: upstream client, reports,
// panel and binder, and the HTTP surface in front of them.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/okian/painel/internal/adapters/http/api"
	"github.com/okian/painel/internal/adapters/http/site"
	"github.com/okian/painel/internal/adapters/http/swagger"
	"github.com/okian/painel/internal/adapters/upstream"
	"github.com/okian/painel/internal/config"
	"github.com/okian/painel/internal/domain/discovery"
	"github.com/okian/painel/internal/domain/empresa"
	"github.com/okian/painel/internal/report"
	"github.com/okian/painel/internal/ui"
	"github.com/okian/painel/pkg/logger"
)

// Service owns the dashboard components and implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	cfg     *config.Config
	client  *upstream.Client
	reports *report.Service
	binder  *ui.Binder

	httpClient *http.Client
	started    bool
	logger     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHTTPClient sets the client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// New builds the components described by cfg. Nothing is fetched until Start.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{cfg: cfg, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	client, err := upstream.New(cfg.UpstreamURL,
		upstream.WithHTTPClient(s.httpClient),
		upstream.WithTimeout(cfg.UpstreamTimeout()),
		upstream.WithLogger(s.logger.Named("upstream")),
	)
	if err != nil {
		return nil, fmt.Errorf("upstream client: %w", err)
	}
	formatter, err := cfg.MonthFormatter()
	if err != nil {
		return nil, fmt.Errorf("month formatter: %w", err)
	}

	s.client = client
	s.reports = report.New(client, cfg.Collection, formatter, report.WithLogger(s.logger.Named("report")))
	panel := ui.NewPanel(ui.NewOutput(ui.WithStaleGuard(cfg.GuardStaleOutput)))
	s.binder = ui.NewBinder(panel, client, s.reports, ui.WithBinderLogger(s.logger.Named("binder")))
	return s, nil
}

// Start discovers the upstream endpoints and binds the controls. Calling it
// again is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting dashboard",
		logger.String("upstream", s.client.BaseURL()),
		logger.String("collection", s.cfg.Collection),
		logger.Bool("guardStaleOutput", s.cfg.GuardStaleOutput))

	if err := s.binder.Start(ctx); err != nil {
		return fmt.Errorf("bind controls: %w", err)
	}
	s.started = true
	return nil
}

// Started reports whether Start has completed.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Panel returns the dashboard context.
func (s *Service) Panel() *ui.Panel { return s.binder.Panel() }

// Reports returns the report service.
func (s *Service) Reports() *report.Service { return s.reports }

// Trigger runs a bound control.
func (s *Service) Trigger(ctx context.Context, id string, in ui.Input) (ui.Outcome, error) {
	return s.binder.Trigger(ctx, id, in)
}

// CountActiveByMonth feeds the monthly chart.
func (s *Service) CountActiveByMonth(ctx context.Context) (*empresa.Counts, error) {
	return s.reports.CountActiveByMonth(ctx)
}

// Discover fetches the upstream root page and lists its relative links,
// without binding anything.
func (s *Service) Discover(ctx context.Context) ([]discovery.Endpoint, error) {
	html, err := s.client.FetchText(ctx, "/")
	if err != nil {
		return nil, err
	}
	return discovery.Discover(html)
}

// Fetch returns the raw upstream document at path.
func (s *Service) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	return s.reports.Raw(ctx, path)
}

// Handler returns the full HTTP surface: dashboard page, API and docs.
func (s *Service) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(s, s,
		api.WithLogger(s.logger.Named("api")),
		api.WithUpstream(s.client.BaseURL()),
	).Register(ctx, mux)
	site.Register(ctx, mux, s.Panel(),
		site.WithUpstream(s.client.BaseURL()),
		site.WithLogger(s.logger.Named("site")),
	)
	return mux
}
