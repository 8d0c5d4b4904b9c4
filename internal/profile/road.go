package profile

import (
	"fmt"
	"math"
)

// FlatRoad is zero incline everywhere.
type FlatRoad struct{}

func (FlatRoad) At(x float64) float64 { return 0 }

// GradeSegment applies Angle while position is strictly below Until.
type GradeSegment struct {
	Until float64
	Angle float64
}

// Road is a piecewise constant incline by position. Beyond the last
// segment the road is flat.
type Road struct {
	segments []GradeSegment
}

func NewRoad(segments []GradeSegment) (*Road, error) {
	for i := 1; i < len(segments); i++ {
		if segments[i].Until <= segments[i-1].Until {
			return nil, fmt.Errorf("road segments must have ascending boundaries")
		}
	}
	return &Road{segments: segments}, nil
}

func (r *Road) At(x float64) float64 {
	for _, seg := range r.segments {
		if x < seg.Until {
			return seg.Angle
		}
	}
	return 0
}

// Segments returns a copy of the segment table, for rendering.
func (r *Road) Segments() []GradeSegment {
	out := make([]GradeSegment, len(r.segments))
	copy(out, r.segments)
	return out
}

// ReferenceGrade is the standard test hill: 3 m of rise over the first
// 60 m, 9 m over the next 90 m, flat afterwards.
func ReferenceGrade() *Road {
	return &Road{segments: []GradeSegment{
		{Until: 60, Angle: math.Atan2(3, 60)},
		{Until: 150, Angle: math.Atan2(9, 90)},
	}}
}
