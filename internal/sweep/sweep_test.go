package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longsim/longsim/internal/scenario"
)

func baseScenario() scenario.Scenario {
	s, _ := scenario.Preset("steady-throttle")
	s.Duration = 2.0
	return s
}

func TestRange(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Range(0, 1, 5))
	assert.Equal(t, []float64{3}, Range(3, 9, 1))
	assert.Equal(t, []float64{3}, Range(3, 9, 0))
}

func TestGridExpand(t *testing.T) {
	g := Grid{Axes: []Axis{
		{Param: "mass", Values: []float64{1000, 2000}},
		{Param: "drag", Values: []float64{1, 2, 3}},
	}}

	points := g.expand()
	require.Len(t, points, 6)

	// First axis outermost.
	assert.Equal(t, map[string]float64{"mass": 1000, "drag": 1}, points[0])
	assert.Equal(t, map[string]float64{"mass": 1000, "drag": 3}, points[2])
	assert.Equal(t, map[string]float64{"mass": 2000, "drag": 1}, points[3])
}

func TestRunOrdersAndScores(t *testing.T) {
	g := Grid{
		Axes:   []Axis{{Param: "mass", Values: []float64{1000, 2000}}},
		Metric: "v_max",
	}

	points, err := Run(context.Background(), baseScenario(), g, 2)
	require.NoError(t, err)
	require.Len(t, points, 2)

	for _, p := range points {
		require.NoError(t, p.Err)
	}

	assert.Equal(t, 1000.0, points[0].Overrides["mass"])
	assert.Equal(t, 2000.0, points[1].Overrides["mass"])
	assert.Greater(t, points[0].Score, points[1].Score,
		"the lighter car should reach a higher speed in the same time")
}

func TestRunKeepsBaseOverrides(t *testing.T) {
	base := baseScenario()
	base.Vehicle = map[string]float64{"drag": 2.0}

	g := Grid{
		Axes:   []Axis{{Param: "mass", Values: []float64{1500}}},
		Metric: "v_max",
	}

	points, err := Run(context.Background(), base, g, 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.NoError(t, points[0].Err)

	// Base scenario must not be mutated by the merge.
	assert.NotContains(t, base.Vehicle, "mass")
}

func TestRunValidation(t *testing.T) {
	_, err := Run(context.Background(), baseScenario(), Grid{Metric: "v_max"}, 1)
	assert.Error(t, err, "empty grid")

	g := Grid{Axes: []Axis{{Param: "warp_factor", Values: []float64{9}}}, Metric: "v_max"}
	_, err = Run(context.Background(), baseScenario(), g, 1)
	assert.Error(t, err, "unknown param")

	g = Grid{Axes: []Axis{{Param: "mass", Values: []float64{1000}}}, Metric: "coolness"}
	_, err = Run(context.Background(), baseScenario(), g, 1)
	assert.Error(t, err, "unknown metric")
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := Grid{
		Axes:   []Axis{{Param: "mass", Values: Range(1000, 3000, 8)}},
		Metric: "v_max",
	}

	_, err := Run(ctx, baseScenario(), g, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBest(t *testing.T) {
	points := []Point{
		{Score: 10},
		{Score: 30},
		{Score: 20, Err: assert.AnError},
		{Score: 5},
	}

	best, ok := Best(points, true)
	require.True(t, ok)
	assert.Equal(t, 30.0, best.Score)

	best, ok = Best(points, false)
	require.True(t, ok)
	assert.Equal(t, 5.0, best.Score)

	_, ok = Best([]Point{{Err: assert.AnError}}, true)
	assert.False(t, ok)
}
