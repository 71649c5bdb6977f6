package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// DataPlot renders collected data per step as an ascii line chart.
func DataPlot(series []float64, caption string) string {
	if len(series) == 0 {
		return ""
	}
	if len(series) == 1 {
		// asciigraph needs two points to draw a line.
		series = []float64{series[0], series[0]}
	}
	return asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
	)
}

// Sparkline renders the last width values as a single row of bars.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
