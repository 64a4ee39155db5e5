package fixture

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/painel/pkg/logger"
)

// Constants for random choices, in percent.
const (
	missingTaxIDPct  = 25
	emptyTaxIDPct    = 5
	missingRegimePct = 15
	missingRamoPct   = 10
	activePct        = 70
	noPartnersPct    = 10
	maxPartners      = 3
)

var (
	regimes  = []string{"Simples Nacional", "Lucro Presumido", "Lucro Real", "MEI"}
	ramos    = []string{"Comércio varejista", "Serviços", "Indústria", "Agronegócio", "Tecnologia"}
	partners = []string{"Ana Souza", "Bruno Lima", "Carla Dias", "Diego Alves", "Elisa Rocha", "Fábio Melo", "Gabriela Reis", "Hugo Costa"}
	prefixes = []string{"Padaria", "Mercado", "Oficina", "Studio", "Agro", "Tech", "Distribuidora", "Clínica"}
	suffixes = []string{"Central", "do Vale", "Paulista", "Nordeste", "Aurora", "Horizonte"}
)

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func chance(pct int) bool { return randomInt(100) < pct }

func pick(values []string) string { return values[randomInt(len(values))] }

// Generate creates cfg.Count companies with ids 1..Count.
func Generate(ctx context.Context, cfg Config) ([]Empresa, error) {
	if cfg.Count <= 0 {
		return []Empresa{}, nil
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Months <= 0 {
		cfg.Months = 12
	}

	type result struct {
		index   int
		empresa Empresa
		err     error
	}

	workers := max(1, min(cfg.Workers, cfg.Count))
	perWorker := cfg.Count / workers
	results := make(chan result, cfg.Count)

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == workers-1 {
			end = cfg.Count
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					results <- result{index: i, err: ctx.Err()}
					return
				default:
					results <- result{index: i, empresa: generateOne(i+1, cfg)}
				}
			}
		}(start, end)
	}

	out := make([]Empresa, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case r := <-results:
			if r.err != nil {
				return nil, fmt.Errorf("failed to generate empresa %d: %w", r.index, r.err)
			}
			out[r.index] = r.empresa
		}
	}

	logger.Get().Debug(ctx, "generated empresas", logger.Int("count", len(out)))
	return out, nil
}

func generateOne(id int, cfg Config) Empresa {
	e := Empresa{
		ID:           id,
		Nome:         pick(prefixes) + " " + pick(suffixes),
		Status:       "inativa",
		DataRegistro: cfg.Now.AddDate(0, -randomInt(cfg.Months), -randomInt(28)).Format("2006-01-02"),
		Codigo:       uuid.NewString(),
	}
	if chance(activePct) {
		e.Status = "ativa"
	}
	switch {
	case chance(missingTaxIDPct):
	case chance(emptyTaxIDPct):
		empty := ""
		e.CPFCNPJ = &empty
	default:
		doc := taxID()
		e.CPFCNPJ = &doc
	}
	if !chance(missingRegimePct) {
		e.RegimeTributario = pick(regimes)
	}
	if !chance(missingRamoPct) {
		e.RamoAtividade = pick(ramos)
	}
	if !chance(noPartnersPct) {
		e.Socios = pickPartners(1 + randomInt(maxPartners))
	}
	return e
}

// taxID returns 11 digits (CPF) or 14 digits (CNPJ). Check digits are not computed.
func taxID() string {
	n := 14
	if chance(30) {
		n = 11
	}
	b := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b = strconv.AppendInt(b, int64(randomInt(10)), 10)
	}
	return string(b)
}

func pickPartners(n int) []string {
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		p := pick(partners)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Partners indexes companies by partner, in first-seen order.
func Partners(empresas []Empresa) []Socio {
	index := make(map[string]int)
	out := []Socio{}
	for _, e := range empresas {
		for _, name := range e.Socios {
			i, ok := index[name]
			if !ok {
				i = len(out)
				index[name] = i
				out = append(out, Socio{Nome: name, Empresas: []int{}})
			}
			out[i].Empresas = append(out[i].Empresas, e.ID)
		}
	}
	return out
}
