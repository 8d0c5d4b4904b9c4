package scenario

import (
	"fmt"
	"math"

	"github.com/longsim/longsim/internal/profile"
	"github.com/longsim/longsim/internal/sim"
	"github.com/longsim/longsim/internal/vehicle"
)

// Build assembles a ready-to-run simulation from the scenario.
func (s *Scenario) Build() (*sim.Runner, error) {
	p := vehicle.DefaultParams()
	p.Dt = s.Dt
	for name, value := range s.Vehicle {
		if err := p.Set(name, value); err != nil {
			return nil, fmt.Errorf("vehicle override: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	init := vehicle.DefaultState()
	init.X = s.Initial.X
	init.V = s.Initial.V
	init.We = s.Initial.We

	throttle, err := s.throttleProfile()
	if err != nil {
		return nil, err
	}
	road, err := s.roadProfile()
	if err != nil {
		return nil, err
	}

	return sim.New(vehicle.NewAt(p, init), throttle, road), nil
}

// RunConfig returns the sim configuration the scenario calls for.
func (s *Scenario) RunConfig() sim.Config {
	return sim.Config{Duration: s.Duration, ValidateState: true}
}

func (s *Scenario) throttleProfile() (profile.Throttle, error) {
	switch s.Throttle.Kind {
	case "constant":
		return profile.ConstantThrottle(s.Throttle.Level), nil
	case "ramp":
		return profile.RampThrottle{
			Low:      s.Throttle.Low,
			High:     s.Throttle.High,
			Duration: s.Duration,
		}, nil
	case "schedule":
		return profile.NewThrottleSchedule(s.Throttle.Times, s.Throttle.Levels)
	default:
		return nil, fmt.Errorf("unknown throttle kind: %q", s.Throttle.Kind)
	}
}

func (s *Scenario) roadProfile() (profile.Incline, error) {
	switch s.Road.Kind {
	case "flat":
		return profile.FlatRoad{}, nil
	case "reference":
		return profile.ReferenceGrade(), nil
	case "segments":
		segments := make([]profile.GradeSegment, len(s.Road.Segments))
		for i, seg := range s.Road.Segments {
			angle := seg.Angle
			if seg.Run != 0 {
				angle = math.Atan2(seg.Rise, seg.Run)
			}
			segments[i] = profile.GradeSegment{Until: seg.Until, Angle: angle}
		}
		return profile.NewRoad(segments)
	default:
		return nil, fmt.Errorf("unknown road kind: %q", s.Road.Kind)
	}
}
