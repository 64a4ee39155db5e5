package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/painel/internal/domain/empresa"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// RenderMonthlyChart renders the active-by-month counts as a PNG bar chart,
// one bar per label in the order the labels were first seen.
func RenderMonthlyChart(counts *empresa.Counts) ([]byte, error) {
	if counts == nil || counts.Len() == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, counts.Len())
	peak := 0
	for _, label := range counts.Keys() {
		n, _ := counts.Get(label)
		if n > peak {
			peak = n
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(n),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"),
				StrokeColor: drawing.ColorFromHex("1d4ed8"),
				StrokeWidth: 1,
			},
		})
	}

	graph := chart.BarChart{
		Title:  "Empresas ativas por mês",
		Width:  120 + 80*len(bars),
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:     50,
		BarSpacing:   30,
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			// An explicit range keeps single-bar charts renderable.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(peak + 1)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
