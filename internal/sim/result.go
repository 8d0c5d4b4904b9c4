package sim

import "github.com/longsim/longsim/internal/vehicle"

// Record is one sample of a run: the vehicle state after T seconds
// together with the inputs in effect at that instant. The step following
// a record applies that record's inputs.
type Record struct {
	T        float64
	State    vehicle.State
	Throttle float64
	Incline  float64
}

// Result collects the samples of a run. A run over N steps produces N+1
// records, the first being the initial state at t=0.
type Result struct {
	Records    []Record
	StepsTaken int
	Errors     []error
}

func (r *Result) column(f func(Record) float64) []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = f(rec)
	}
	return out
}

func (r *Result) Times() []float64 {
	return r.column(func(rec Record) float64 { return rec.T })
}

func (r *Result) Positions() []float64 {
	return r.column(func(rec Record) float64 { return rec.State.X })
}

func (r *Result) Velocities() []float64 {
	return r.column(func(rec Record) float64 { return rec.State.V })
}

func (r *Result) Accelerations() []float64 {
	return r.column(func(rec Record) float64 { return rec.State.A })
}

func (r *Result) EngineSpeeds() []float64 {
	return r.column(func(rec Record) float64 { return rec.State.We })
}

func (r *Result) Throttles() []float64 {
	return r.column(func(rec Record) float64 { return rec.Throttle })
}

func (r *Result) Inclines() []float64 {
	return r.column(func(rec Record) float64 { return rec.Incline })
}

// Final returns the last record, or a zero record for an empty result.
func (r *Result) Final() Record {
	if len(r.Records) == 0 {
		return Record{}
	}
	return r.Records[len(r.Records)-1]
}
