package main

import (
	"fmt"
	"html"
	"strings"
)

type bar struct {
	Label string
	Value float64
	Text  string
}

func barChartSVG(title string, bars []bar, color string) string {
	width := 600
	height := 400
	padding := 50
	barWidth := (width - 2*padding) / max(len(bars), 1)
	maxBarHeight := height - 2*padding

	maxVal := 0.0
	for _, b := range bars {
		maxVal = max(maxVal, b.Value)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height))
	sb.WriteString(`<rect width="100%" height="100%" fill="#1a1a1a" />`)
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="30" fill="white" font-family="Arial" font-size="20" text-anchor="middle">%s</text>`, width/2, html.EscapeString(title)))

	for i, b := range bars {
		barHeight := 0
		if maxVal > 0 {
			barHeight = int(b.Value / maxVal * float64(maxBarHeight))
		}
		x := padding + i*barWidth
		y := height - padding - barHeight
		mid := x + barWidth/2

		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="4" />`, x+5, y, barWidth-10, barHeight, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="white" font-family="Arial" font-size="12" text-anchor="end" transform="rotate(-45 %d %d)">%s</text>`,
			mid, height-padding+20, mid, height-padding+20, html.EscapeString(b.Label)))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="white" font-family="Arial" font-size="10" text-anchor="middle">%s</text>`, mid, y-5, b.Text))
	}

	// X-axis
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="white" stroke-width="2" />`, padding, height-padding, width-padding, height-padding))
	sb.WriteString(`</svg>`)
	return sb.String()
}
