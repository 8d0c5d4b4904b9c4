package viz

import (
	"math"

	"github.com/longsim/longsim/internal/profile"
)

// RoadScene renders a side view of the road: the elevation cross-section
// implied by the incline profile, with the vehicle drawn at its current
// position.
type RoadScene struct {
	Incline profile.Incline
	Span    float64 // meters of road shown, from x=0
}

// elevations samples the road height at n points by accumulating
// tan(angle) over the span.
func (s RoadScene) elevations(n int) []float64 {
	dx := s.Span / float64(n-1)
	elev := make([]float64, n)
	for i := 1; i < n; i++ {
		x := float64(i-1) * dx
		elev[i] = elev[i-1] + math.Tan(s.Incline.At(x))*dx
	}
	return elev
}

// Draw renders the scene onto the canvas: road surface as a line, the
// vehicle as a filled block riding on it.
func (s RoadScene) Draw(c *Canvas, vehicleX float64) {
	pw, ph := c.PixelWidth(), c.PixelHeight()
	elev := s.elevations(pw)

	maxElev := 0.0
	for _, e := range elev {
		if e > maxElev {
			maxElev = e
		}
	}

	// Keep the road in the lower two thirds of the frame.
	groundY := ph - 4
	vscale := 0.0
	if maxElev > 0 {
		vscale = float64(ph) * 0.6 / maxElev
	}

	toY := func(e float64) int { return groundY - int(e*vscale) }

	prevY := toY(elev[0])
	for px := 1; px < pw; px++ {
		y := toY(elev[px])
		c.DrawLine(px-1, prevY, px, y)
		prevY = y
	}

	// Vehicle marker, clamped to the visible span.
	frac := vehicleX / s.Span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	vx := int(frac * float64(pw-1))
	vy := toY(elev[vx])
	c.FillRect(vx-3, vy-4, vx+3, vy-2)
}
