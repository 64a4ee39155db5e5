package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/painel/internal/domain/discovery"
	"github.com/okian/painel/internal/domain/empresa"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// Fixed control ids. They match the element ids of the dashboard page.
const (
	ControlGroupRegime = "btn-group-regime"
	ControlWithCPF     = "btn-with-cpf"
	ControlNoCPF       = "btn-no-cpf"
	ControlActive      = "btn-ativas"
	ControlInactive    = "btn-inativas"
	ControlCountMonth  = "btn-count-month"
	ControlBySocio     = "btn-by-socio"
	ControlGroupRamo   = "btn-group-ramo"

	// InputSocio is the text field read by ControlBySocio.
	InputSocio = "input-socio"

	endpointPrefix = "endpoint:"
)

// EndpointControlID returns the id of the control bound to path.
func EndpointControlID(path string) string { return endpointPrefix + path }

// RootFetcher reads the upstream root page.
type RootFetcher interface {
	FetchText(ctx context.Context, path string) (string, error)
}

// Reports is the set of reports the fixed controls run.
type Reports interface {
	GroupByRegime(ctx context.Context) (*empresa.Groups, error)
	WithTaxID(ctx context.Context) ([]empresa.Record, error)
	WithoutTaxID(ctx context.Context) ([]empresa.Record, error)
	ByStatus(ctx context.Context, status string) ([]empresa.Record, error)
	CountActiveByMonth(ctx context.Context) (*empresa.Counts, error)
	CompaniesByPartner(ctx context.Context, name string) (any, error)
	GroupByActivity(ctx context.Context) (*empresa.Groups, error)
	Raw(ctx context.Context, path string) (json.RawMessage, error)
}

// Outcome is the result of one triggered control.
type Outcome struct {
	RunID      string `json:"execucao"`
	ControlID  string `json:"controle"`
	Text       string `json:"saida"`
	Failed     bool   `json:"erro"`
	Generation Ticket `json:"geracao"`
	// Applied is false when the stale guard kept Text out of the shared area.
	Applied bool `json:"aplicado"`
}

// Binder discovers endpoints and binds every control to the panel.
type Binder struct {
	panel   *Panel
	root    RootFetcher
	reports Reports
	log     logger.Logger
	started atomic.Bool
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithBinderLogger sets the logger.
func WithBinderLogger(l logger.Logger) BinderOption {
	return func(b *Binder) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBinder returns a binder for panel.
func NewBinder(panel *Panel, root RootFetcher, reports Reports, opts ...BinderOption) *Binder {
	b := &Binder{
		panel:   panel,
		root:    root,
		reports: reports,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Panel returns the panel the binder writes to.
func (b *Binder) Panel() *Panel { return b.panel }

// Start discovers the upstream endpoints, binds one control per endpoint and
// then the fixed report controls. A discovery failure is shown in the output
// area and logged; the fixed controls are bound regardless.
func (b *Binder) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	endpoints, err := b.discover(ctx)
	if err != nil {
		b.log.Warn(ctx, "endpoint discovery failed", logger.Error(err))
		out := b.panel.Output()
		out.Fail(out.Loading(), err)
	}
	b.panel.setEndpoints(endpoints)
	metrics.UpdateDiscoveredEndpoints(len(endpoints))

	for _, ep := range endpoints {
		path := ep.Path
		c := Control{ID: EndpointControlID(path), Label: path, Kind: KindEndpoint, Path: path}
		if err := b.panel.bind(c, func(ctx context.Context, _ Input) (any, error) {
			return b.reports.Raw(ctx, path)
		}); err != nil {
			return err
		}
	}

	for _, f := range b.fixed() {
		if err := b.panel.bind(f.control, f.action); err != nil {
			return err
		}
	}

	controls := b.panel.Controls()
	metrics.UpdateBoundControls(len(controls))
	b.log.Info(ctx, "dashboard bound",
		logger.Int("endpoints", len(endpoints)),
		logger.Int("controls", len(controls)))
	return nil
}

func (b *Binder) discover(ctx context.Context) ([]discovery.Endpoint, error) {
	html, err := b.root.FetchText(ctx, "/")
	if err != nil {
		return []discovery.Endpoint{}, err
	}
	endpoints, err := discovery.Discover(html)
	if err != nil {
		return []discovery.Endpoint{}, fmt.Errorf("discover endpoints: %w", err)
	}
	return endpoints, nil
}

type fixedControl struct {
	control Control
	action  Action
}

func (b *Binder) fixed() []fixedControl {
	r := b.reports
	report := func(id, label string) Control {
		return Control{ID: id, Label: label, Kind: KindReport}
	}
	return []fixedControl{
		{report(ControlGroupRegime, "Agrupar por regime tributário"), func(ctx context.Context, _ Input) (any, error) {
			return r.GroupByRegime(ctx)
		}},
		{report(ControlWithCPF, "Empresas com CPF/CNPJ"), func(ctx context.Context, _ Input) (any, error) {
			return r.WithTaxID(ctx)
		}},
		{report(ControlNoCPF, "Empresas sem CPF/CNPJ"), func(ctx context.Context, _ Input) (any, error) {
			return r.WithoutTaxID(ctx)
		}},
		{report(ControlActive, "Empresas ativas"), func(ctx context.Context, _ Input) (any, error) {
			return r.ByStatus(ctx, empresa.StatusActive)
		}},
		{report(ControlInactive, "Empresas inativas"), func(ctx context.Context, _ Input) (any, error) {
			return r.ByStatus(ctx, empresa.StatusInactive)
		}},
		{report(ControlCountMonth, "Ativas por mês"), func(ctx context.Context, _ Input) (any, error) {
			return r.CountActiveByMonth(ctx)
		}},
		{Control{ID: ControlBySocio, Label: "Empresas por sócio", Kind: KindReport, Input: InputSocio}, func(ctx context.Context, in Input) (any, error) {
			return r.CompaniesByPartner(ctx, in.Socio)
		}},
		{report(ControlGroupRamo, "Agrupar por ramo de atividade"), func(ctx context.Context, _ Input) (any, error) {
			return r.GroupByActivity(ctx)
		}},
	}
}

// Trigger runs control id: the output area shows the loading text, then the
// rendered result or the error. Action failures end up in the Outcome, never
// in the returned error, which is reserved for an unknown control.
func (b *Binder) Trigger(ctx context.Context, id string, in Input) (Outcome, error) {
	action, ok := b.panel.action(id)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}

	runID := uuid.NewString()
	log := b.log.With(logger.String("run", runID), logger.String("control", id))
	out := b.panel.Output()
	ticket := out.Loading()
	start := time.Now()

	res := Outcome{RunID: runID, ControlID: id, Generation: ticket}
	value, err := action(ctx, in)
	if err != nil {
		res.Failed = true
		res.Text, res.Applied = out.Fail(ticket, err)
		metrics.RecordErrorByType("action", "warning")
		log.Warn(ctx, "control failed", logger.Error(err), logger.Duration("took", time.Since(start)))
		return res, nil
	}

	res.Text, res.Applied = out.Show(ticket, value)
	if !res.Applied {
		log.Debug(ctx, "stale result kept out of the output area", logger.Uint64("ticket", uint64(ticket)))
	}
	log.Debug(ctx, "control done", logger.Duration("took", time.Since(start)))
	return res, nil
}
