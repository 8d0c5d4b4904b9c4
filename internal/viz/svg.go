package viz

import (
	"fmt"
	"strings"
)

// CanvasToSVG renders a braille canvas as an SVG document, one circle per
// lit pixel. scale is the pixel pitch in SVG units.
func CanvasToSVG(c *Canvas, scale float64) string {
	if c == nil {
		return ""
	}

	width := float64(c.PixelWidth()) * scale
	height := float64(c.PixelHeight()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Cell(col, row) - brailleBase
			if pattern == 0 {
				continue
			}
			baseX := float64(col*2) * scale
			baseY := float64(row*4) * scale
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PlotSeries rasterizes an (x, y) series onto a fresh canvas, auto-scaled
// with a small margin. Degenerate series produce an empty canvas.
func PlotSeries(xs, ys []float64, width, height int) *Canvas {
	c := NewCanvas(width, height)
	if len(xs) < 2 || len(xs) != len(ys) {
		return c
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	pw, ph := c.PixelWidth()-2, c.PixelHeight()-2
	prevX, prevY := -1, -1
	for i := range xs {
		px := 1 + int((xs[i]-minX)/rangeX*float64(pw-1))
		py := 1 + ph - 1 - int((ys[i]-minY)/rangeY*float64(ph-1))
		if prevX >= 0 {
			c.DrawLine(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
	}
	return c
}
