// Package ui holds the dashboard state and the controls that act on it.
package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/painel/internal/domain/discovery"
)

// Kind tells fixed report controls from discovered endpoint controls.
type Kind string

// Control kinds.
const (
	KindReport   Kind = "relatorio"
	KindEndpoint Kind = "endpoint"
)

// Control is one clickable element of the dashboard.
type Control struct {
	ID    string `json:"id"`
	Label string `json:"rotulo"`
	Kind  Kind   `json:"tipo"`
	// Input names the text field the control reads, if any.
	Input string `json:"entrada,omitempty"`
	Path  string `json:"caminho,omitempty"`
}

// Input carries what the user typed when triggering a control.
type Input struct {
	Socio string `json:"socio"`
}

// Action produces the value a control displays.
type Action func(ctx context.Context, in Input) (any, error)

// Panel is the dashboard context: the output area, the discovered endpoints
// and the bound controls. It is passed explicitly to whatever renders or
// triggers.
type Panel struct {
	output *Output

	mu        sync.RWMutex
	endpoints []discovery.Endpoint
	controls  []Control
	actions   map[string]Action
}

// NewPanel returns a panel writing to output.
func NewPanel(output *Output) *Panel {
	if output == nil {
		output = NewOutput()
	}
	return &Panel{
		output:    output,
		endpoints: []discovery.Endpoint{},
		actions:   make(map[string]Action),
	}
}

// Output returns the shared output area.
func (p *Panel) Output() *Output { return p.output }

// Endpoints returns the discovered endpoints in page order.
func (p *Panel) Endpoints() []discovery.Endpoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]discovery.Endpoint{}, p.endpoints...)
}

// Controls returns the bound controls in binding order.
func (p *Panel) Controls() []Control {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Control{}, p.controls...)
}

// Control looks a control up by id.
func (p *Panel) Control(id string) (Control, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, c := range p.controls {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}

func (p *Panel) setEndpoints(eps []discovery.Endpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoints = append([]discovery.Endpoint{}, eps...)
}

func (p *Panel) bind(c Control, a Action) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.actions[c.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateControl, c.ID)
	}
	p.actions[c.ID] = a
	p.controls = append(p.controls, c)
	return nil
}

func (p *Panel) action(id string) (Action, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.actions[id]
	return a, ok
}
