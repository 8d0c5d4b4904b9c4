package vehicle

import "math"

// State is a snapshot of the five dynamic quantities.
type State struct {
	X     float64 // position, m
	V     float64 // velocity, m/s
	A     float64 // acceleration, m/s^2
	We    float64 // engine angular velocity, rad/s
	WeDot float64 // engine angular acceleration, rad/s^2
}

// DefaultState is the reference initial operating point: rolling at 5 m/s
// with the engine at 100 rad/s and no stored accelerations.
func DefaultState() State {
	return State{X: 0, V: 5.0, A: 0, We: 100.0, WeDot: 0}
}

// IsValid reports whether all quantities are finite.
func (s State) IsValid() bool {
	for _, v := range []float64{s.X, s.V, s.A, s.We, s.WeDot} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// WheelSpeed returns the wheel angular velocity implied by engine speed.
func (s State) WheelSpeed(p Params) float64 {
	return p.GearRatio * s.We
}
