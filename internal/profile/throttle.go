package profile

import (
	"fmt"
	"sort"
)

// ConstantThrottle holds a fixed throttle level.
type ConstantThrottle float64

func (c ConstantThrottle) At(t float64) float64 { return float64(c) }

// RampThrottle rises from Low to High over the first quarter of Duration,
// holds High through the middle half, and decays to zero over the last
// quarter.
type RampThrottle struct {
	Low      float64
	High     float64
	Duration float64
}

func (r RampThrottle) At(t float64) float64 {
	q := r.Duration / 4
	switch {
	case t < 0:
		return r.Low
	case t < q:
		return r.Low + (r.High-r.Low)*t/q
	case t < 3*q:
		return r.High
	case t < r.Duration:
		return r.High * (r.Duration - t) / q
	default:
		return 0
	}
}

// ReferenceThrottle is the standard acceleration maneuver: 0.2 to 0.5,
// hold, release.
func ReferenceThrottle(duration float64) RampThrottle {
	return RampThrottle{Low: 0.2, High: 0.5, Duration: duration}
}

// ThrottleSchedule interpolates linearly between (time, level) breakpoints.
// Before the first breakpoint it holds the first level, after the last the
// last level.
type ThrottleSchedule struct {
	times  []float64
	levels []float64
}

func NewThrottleSchedule(times, levels []float64) (*ThrottleSchedule, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("schedule needs at least one breakpoint")
	}
	if len(times) != len(levels) {
		return nil, fmt.Errorf("schedule has %d times but %d levels", len(times), len(levels))
	}
	if !sort.Float64sAreSorted(times) {
		return nil, fmt.Errorf("schedule times must be ascending")
	}
	return &ThrottleSchedule{times: times, levels: levels}, nil
}

func (s *ThrottleSchedule) At(t float64) float64 {
	if t <= s.times[0] {
		return s.levels[0]
	}
	last := len(s.times) - 1
	if t >= s.times[last] {
		return s.levels[last]
	}

	i := sort.SearchFloat64s(s.times, t)
	// s.times[i-1] < t <= s.times[i]
	t0, t1 := s.times[i-1], s.times[i]
	l0, l1 := s.levels[i-1], s.levels[i]
	return l0 + (l1-l0)*(t-t0)/(t1-t0)
}
