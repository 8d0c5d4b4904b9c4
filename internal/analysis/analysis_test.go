package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longsim/longsim/internal/profile"
	"github.com/longsim/longsim/internal/sim"
	"github.com/longsim/longsim/internal/vehicle"
)

func recordsFrom(vels []float64) []sim.Record {
	records := make([]sim.Record, len(vels))
	x := 0.0
	for i, v := range vels {
		x += v * 0.01
		records[i] = sim.Record{
			T:     float64(i) * 0.01,
			State: vehicle.State{X: x, V: v, A: float64(i), We: 100},
		}
	}
	return records
}

func TestSummarize(t *testing.T) {
	records := recordsFrom([]float64{1, 2, 3, 4})
	s := Summarize(records)

	assert.Equal(t, 1.0, s.VMin)
	assert.Equal(t, 4.0, s.VMax)
	assert.InDelta(t, 2.5, s.VMean, 1e-12)
	assert.Equal(t, 3.0, s.PeakAccel)
	assert.Equal(t, 100.0, s.MeanEngine)
	assert.InDelta(t, records[3].State.X-records[0].State.X, s.Distance, 1e-12)
	assert.False(t, s.Settled, "velocity still changing by 1 per step")
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestSummaryMap(t *testing.T) {
	s := Summary{VMax: 24.0, Settled: true, SettleTime: 40.0, TerminalV: 24.0}
	m := s.Map()

	assert.Equal(t, 24.0, m["v_max"])
	assert.Equal(t, 40.0, m["settle_time"])
	assert.Equal(t, 24.0, m["terminal_v"])

	s.Settled = false
	m = s.Map()
	assert.NotContains(t, m, "settle_time")
	assert.NotContains(t, m, "terminal_v")
}

func TestSettlingPoint(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5}
	vels := []float64{5, 4, 3, 2.9995, 2.9993, 2.9992}

	st, ok := SettlingPoint(times, vels, 1e-3)
	require.True(t, ok)
	assert.Equal(t, 2.0, st)
}

func TestSettlingPointNever(t *testing.T) {
	times := []float64{0, 1, 2}
	vels := []float64{5, 4, 3}

	_, ok := SettlingPoint(times, vels, 1e-3)
	assert.False(t, ok)
}

func TestSettlingPointImmediate(t *testing.T) {
	times := []float64{0, 1, 2}
	vels := []float64{3.0, 3.0001, 3.0002}

	st, ok := SettlingPoint(times, vels, 1e-3)
	require.True(t, ok)
	assert.Equal(t, 0.0, st)
}

func TestSettlingPointShort(t *testing.T) {
	_, ok := SettlingPoint([]float64{0}, []float64{5}, 1e-3)
	assert.False(t, ok)
}

func TestCrossingTime(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	xs := []float64{0, 10, 20, 30}

	ct, ok := CrossingTime(times, xs, 15)
	require.True(t, ok)
	assert.Equal(t, 2.0, ct)

	_, ok = CrossingTime(times, xs, 100)
	assert.False(t, ok)
}

func TestSummarizeSteadyRun(t *testing.T) {
	r := sim.New(
		vehicle.New(vehicle.DefaultParams()),
		profile.ConstantThrottle(0.2),
		profile.FlatRoad{},
	)

	result, err := r.Run(context.Background(), sim.Config{Duration: 100.0, ValidateState: true})
	require.NoError(t, err)

	s := Summarize(result.Records)
	require.True(t, s.Settled, "100 s at steady throttle should settle")
	assert.Greater(t, s.TerminalV, 18.0)
	assert.Less(t, s.TerminalV, 30.0)
	assert.Greater(t, s.SettleTime, 0.0)
	assert.Less(t, s.SettleTime, 100.0)
	assert.InDelta(t, s.VMax, s.TerminalV, 1e-6, "velocity should rise monotonically to terminal")
}
