package ui

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/okian/painel/pkg/metrics"
)

// Texts written to the output area.
const (
	LoadingText = "Carregando..."
	ErrorPrefix = "Erro: "
)

// Render kinds used as metric labels.
const (
	renderLoading = "loading"
	renderValue   = "value"
	renderError   = "error"
)

// Ticket identifies one action's claim on the output area. Tickets grow
// monotonically in the order actions start.
type Ticket uint64

// State is a snapshot of the output area.
type State struct {
	Text       string `json:"texto"`
	Generation Ticket `json:"geracao"`
}

// Output is the single shared output area.
type Output struct {
	mu         sync.Mutex
	text       string
	issued     Ticket
	written    Ticket
	guardStale bool
}

// OutputOption configures an Output.
type OutputOption func(*Output)

// WithStaleGuard drops results of actions that were overtaken by a newer one.
// Without it the last action to complete wins.
func WithStaleGuard(on bool) OutputOption {
	return func(o *Output) { o.guardStale = on }
}

// NewOutput returns an empty output area.
func NewOutput(opts ...OutputOption) *Output {
	o := &Output{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render serializes v as JSON indented by two spaces.
func Render(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Loading marks the area as busy and issues the caller's ticket.
func (o *Output) Loading() Ticket {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issued++
	o.text = LoadingText
	o.written = o.issued
	metrics.RecordOutputRender(renderLoading)
	return o.issued
}

// Show renders v for ticket t. A value that cannot be rendered is shown as an
// error instead. It returns the text meant for the caller and whether the
// shared area was updated.
func (o *Output) Show(t Ticket, v any) (string, bool) {
	text, err := Render(v)
	if err != nil {
		return o.Fail(t, err)
	}
	return text, o.apply(t, text, renderValue)
}

// Fail shows err for ticket t.
func (o *Output) Fail(t Ticket, err error) (string, bool) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	text := ErrorPrefix + msg
	return text, o.apply(t, text, renderError)
}

func (o *Output) apply(t Ticket, text, kind string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.guardStale && t < o.issued {
		metrics.RecordStaleOutputDropped()
		return false
	}
	o.text = text
	o.written = t
	metrics.RecordOutputRender(kind)
	return true
}

// Text returns what the area currently shows.
func (o *Output) Text() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.text
}

// Snapshot returns the current text with the ticket that wrote it.
func (o *Output) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return State{Text: o.text, Generation: o.written}
}

// Generation returns the newest ticket issued.
func (o *Output) Generation() Ticket {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.issued
}

// GuardsStale reports whether the stale guard is on.
func (o *Output) GuardsStale() bool { return o.guardStale }
