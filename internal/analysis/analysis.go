// Package analysis computes post-run statistics over recorded samples.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/longsim/longsim/internal/sim"
)

// Summary distills a run into scalar metrics.
type Summary struct {
	Distance   float64
	VMin       float64
	VMax       float64
	VMean      float64
	VStdDev    float64
	PeakAccel  float64 // largest |a|
	MeanEngine float64 // mean w_e
	Settled    bool
	SettleTime float64 // first time successive velocity deltas stay small
	TerminalV  float64 // final velocity when settled
}

// SettleTol is the per-step velocity delta below which a run counts as
// settled.
const SettleTol = 1e-3

func Summarize(records []sim.Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	n := len(records)
	times := make([]float64, n)
	vels := make([]float64, n)
	accels := make([]float64, n)
	engines := make([]float64, n)
	for i, rec := range records {
		times[i] = rec.T
		vels[i] = rec.State.V
		accels[i] = rec.State.A
		engines[i] = rec.State.We
	}

	s := Summary{
		Distance:   records[n-1].State.X - records[0].State.X,
		VMin:       floats.Min(vels),
		VMax:       floats.Max(vels),
		VMean:      stat.Mean(vels, nil),
		PeakAccel:  floats.Norm(accels, math.Inf(1)),
		MeanEngine: stat.Mean(engines, nil),
	}
	if n > 1 {
		s.VStdDev = stat.StdDev(vels, nil)
	}

	if t, ok := SettlingPoint(times, vels, SettleTol); ok {
		s.Settled = true
		s.SettleTime = t
		s.TerminalV = vels[n-1]
	}

	return s
}

// Map returns the metrics keyed for run metadata.
func (s Summary) Map() map[string]float64 {
	m := map[string]float64{
		"distance": s.Distance,
		"v_min":    s.VMin,
		"v_max":    s.VMax,
		"v_mean":   s.VMean,
		"v_std":    s.VStdDev,
		"a_peak":   s.PeakAccel,
		"w_e_mean": s.MeanEngine,
	}
	if s.Settled {
		m["settle_time"] = s.SettleTime
		m["terminal_v"] = s.TerminalV
	}
	return m
}

// SettlingPoint returns the first time from which every successive
// velocity delta stays below tol through the end of the run. The boolean
// is false when the run never settles (or is too short to tell).
func SettlingPoint(times, vels []float64, tol float64) (float64, bool) {
	if len(vels) < 2 || len(times) != len(vels) {
		return 0, false
	}

	// Walk back to the last delta at or above tolerance.
	last := -1
	for i := len(vels) - 2; i >= 0; i-- {
		if math.Abs(vels[i+1]-vels[i]) >= tol {
			last = i
			break
		}
	}

	switch {
	case last == len(vels)-2:
		return 0, false // still moving at the end
	case last < 0:
		return times[0], true
	default:
		return times[last+1], true
	}
}

// CrossingTime returns the first time position reaches threshold.
func CrossingTime(times, xs []float64, threshold float64) (float64, bool) {
	for i, x := range xs {
		if x >= threshold {
			return times[i], true
		}
	}
	return 0, false
}
