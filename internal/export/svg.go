package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/roversim/internal/analysis"
)

// TrajectoryToSVG draws a ground track as an SVG path. Points are (north,
// east); north is drawn up and east to the right, with equal scale on both
// axes and 10% padding.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX, minY, maxY := analysis.Bounds(points)
	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := float64(min(width, height)) / span

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := float64(width)/2 + (p.Y-cy)*scale
		y := float64(height)/2 - (p.X-cx)*scale

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	first, last := points[0], points[len(points)-1]
	sb.WriteString(`"/>
`)
	sb.WriteString(marker(float64(width)/2+(first.Y-cy)*scale, float64(height)/2-(first.X-cx)*scale, "#00ff88"))
	sb.WriteString(marker(float64(width)/2+(last.Y-cy)*scale, float64(height)/2-(last.X-cx)*scale, "#ff4444"))
	sb.WriteString(`</svg>`)
	return sb.String()
}

func marker(x, y float64, fill string) string {
	return fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, fill)
}
