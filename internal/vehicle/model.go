package vehicle

import "math"

// Model is the mutable longitudinal vehicle. State changes only through
// Step and Reset.
type Model struct {
	Params Params

	init State
	cur  State
}

// New creates a model at the reference initial operating point.
func New(p Params) *Model {
	return NewAt(p, DefaultState())
}

// NewAt creates a model at a custom initial operating point. Reset
// returns to it.
func NewAt(p Params, init State) *Model {
	return &Model{Params: p, init: init, cur: init}
}

// State returns a snapshot of the current state.
func (m *Model) State() State { return m.cur }

// Reset restores the initial operating point exactly.
func (m *Model) Reset() { m.cur = m.init }

// Step advances the model by one timestep. Position, velocity, and engine
// speed integrate with the accelerations stored by the previous call; the
// accelerations are then recomputed from the updated state and held for
// the next call. Throttle is a 0..1 fraction, incline the road angle in
// radians.
func (m *Model) Step(throttle, incline float64) {
	p := m.Params
	dt := p.Dt

	m.cur.X += m.cur.V * dt
	m.cur.V += m.cur.A * dt
	m.cur.We += m.cur.WeDot * dt

	wheelSpeed := p.GearRatio * m.cur.We
	slip := wheelSpeed*p.WheelRadius/m.cur.V - 1

	var tireForce float64
	if math.Abs(slip) < 1 {
		tireForce = p.TireStiffness * slip
	} else {
		tireForce = p.MaxTireForce
	}

	load := p.DragCoeff*m.cur.V*m.cur.V +
		p.RollResist*m.cur.V +
		p.Mass*p.Gravity*math.Sin(incline)

	torque := throttle * (p.A0 + p.A1*m.cur.We + p.A2*m.cur.We*m.cur.We)

	m.cur.A = (tireForce - load) / p.Mass
	m.cur.WeDot = (torque - p.GearRatio*p.WheelRadius*load) / p.EngineInertia
}

// Slip returns the tire slip ratio at the current state. Not finite at
// v = 0.
func (m *Model) Slip() float64 {
	return m.cur.WheelSpeed(m.Params)*m.Params.WheelRadius/m.cur.V - 1
}
