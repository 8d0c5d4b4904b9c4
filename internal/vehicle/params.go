package vehicle

import "fmt"

// Params holds the physical constants of the longitudinal model.
// Forces are in newtons, masses in kg, angles in radians, speeds in m/s
// and rad/s.
type Params struct {
	A0 float64 // engine torque map: T_e = throttle * (A0 + A1*w_e + A2*w_e^2)
	A1 float64
	A2 float64

	GearRatio     float64 // combined transmission/final-drive ratio
	WheelRadius   float64 // effective rolling radius
	EngineInertia float64

	Mass    float64
	Gravity float64

	DragCoeff  float64 // aerodynamic, F = DragCoeff * v^2
	RollResist float64 // rolling resistance, F = RollResist * v

	TireStiffness float64 // linear tire force per unit slip
	MaxTireForce  float64 // saturation force for |slip| >= 1

	Dt float64 // integration step, s
}

// DefaultParams returns the reference mid-size car constants.
func DefaultParams() Params {
	return Params{
		A0:            400.0,
		A1:            0.1,
		A2:            -0.0002,
		GearRatio:     0.35,
		WheelRadius:   0.3,
		EngineInertia: 10.0,
		Mass:          2000.0,
		Gravity:       9.81,
		DragCoeff:     1.36,
		RollResist:    0.01,
		TireStiffness: 10000.0,
		MaxTireForce:  10000.0,
		Dt:            0.01,
	}
}

func (p Params) Validate() error {
	if p.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %f", p.Mass)
	}
	if p.EngineInertia <= 0 {
		return fmt.Errorf("engine inertia must be positive, got %f", p.EngineInertia)
	}
	if p.WheelRadius <= 0 {
		return fmt.Errorf("wheel radius must be positive, got %f", p.WheelRadius)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", p.Dt)
	}
	return nil
}

// Map returns the tunable constants keyed by name, for display and sweeps.
func (p Params) Map() map[string]float64 {
	return map[string]float64{
		"a0":             p.A0,
		"a1":             p.A1,
		"a2":             p.A2,
		"gear_ratio":     p.GearRatio,
		"wheel_radius":   p.WheelRadius,
		"engine_inertia": p.EngineInertia,
		"mass":           p.Mass,
		"gravity":        p.Gravity,
		"drag":           p.DragCoeff,
		"roll":           p.RollResist,
		"tire_stiffness": p.TireStiffness,
		"tire_force_max": p.MaxTireForce,
		"dt":             p.Dt,
	}
}

func (p *Params) Set(name string, value float64) error {
	switch name {
	case "a0":
		p.A0 = value
	case "a1":
		p.A1 = value
	case "a2":
		p.A2 = value
	case "gear_ratio":
		p.GearRatio = value
	case "wheel_radius":
		p.WheelRadius = value
	case "engine_inertia":
		p.EngineInertia = value
	case "mass":
		p.Mass = value
	case "gravity":
		p.Gravity = value
	case "drag":
		p.DragCoeff = value
	case "roll":
		p.RollResist = value
	case "tire_stiffness":
		p.TireStiffness = value
	case "tire_force_max":
		p.MaxTireForce = value
	case "dt":
		p.Dt = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
