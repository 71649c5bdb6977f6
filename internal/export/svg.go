// Package export writes run data to files outside the terminal.
package export

import (
	"fmt"
	"strings"
)

// SeriesToSVG draws values as a step line, one step per command, so flat
// stretches stay flat between collections. It returns "" for an empty
// series.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxY := values[0]
	for _, v := range values {
		maxY = max(maxY, v)
	}
	if maxY == 0 {
		maxY = 1
	}

	const pad = 10.0
	plotW := float64(width) - 2*pad
	plotH := float64(height) - 2*pad
	stepW := plotW / float64(max(len(values)-1, 1))
	yOf := func(v float64) float64 { return pad + plotH - v/maxY*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M%.1f,%.1f`,
		width, height, width, height, strokeColor, pad, yOf(values[0]))

	for i := 1; i < len(values); i++ {
		x := pad + float64(i)*stepW
		fmt.Fprintf(&sb, " H%.1f V%.1f", x, yOf(values[i]))
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
