package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/longsim/longsim/internal/profile"
	"github.com/longsim/longsim/internal/vehicle"
)

func newTestRunner() *Runner {
	m := vehicle.New(vehicle.DefaultParams())
	return New(m, profile.ConstantThrottle(0.2), profile.FlatRoad{})
}

func TestRunnerRecordCount(t *testing.T) {
	r := newTestRunner()

	result, err := r.Run(context.Background(), Config{Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Records) != 101 {
		t.Errorf("expected 101 records, got %d", len(result.Records))
	}
	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	if result.Records[0].T != 0 {
		t.Errorf("first record at t=%v, want 0", result.Records[0].T)
	}
	if math.Abs(result.Final().T-1.0) > 1e-9 {
		t.Errorf("final record at t=%v, want 1.0", result.Final().T)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero duration", Config{Duration: 0}},
		{"negative duration", Config{Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner()
			if _, err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	t.Run("bad model dt", func(t *testing.T) {
		p := vehicle.DefaultParams()
		p.Dt = 0
		r := New(vehicle.New(p), profile.ConstantThrottle(0.2), profile.FlatRoad{})
		if _, err := r.Run(context.Background(), Config{Duration: 1.0}); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestRunnerContextCancel(t *testing.T) {
	r := newTestRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Config{Duration: 10.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Records) == 0 {
		t.Error("expected partial result with the initial record")
	}
}

func TestRunnerStopsOnDivergence(t *testing.T) {
	p := vehicle.DefaultParams()
	p.Gravity = math.NaN()
	r := New(vehicle.New(p), profile.ConstantThrottle(0.2), profile.FlatRoad{})

	result, err := r.Run(context.Background(), Config{Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(result.Errors))
	}
	if !errors.Is(result.Errors[0], ErrDiverged) {
		t.Errorf("recorded error = %v, want ErrDiverged", result.Errors[0])
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected 0 completed steps, got %d", result.StepsTaken)
	}
}

func TestRunnerAppliesSampledInputs(t *testing.T) {
	p := vehicle.DefaultParams()
	throttle := profile.ReferenceThrottle(20.0)
	road := profile.ReferenceGrade()

	r := New(vehicle.New(p), throttle, road)
	result, err := r.Run(context.Background(), Config{Duration: 20.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	manual := vehicle.New(p)
	for i := 0; i < 2000; i++ {
		tm := float64(i) * p.Dt
		manual.Step(throttle.At(tm), road.At(manual.State().X))
	}

	if result.Final().State != manual.State() {
		t.Errorf("runner final state %+v differs from manual stepping %+v",
			result.Final().State, manual.State())
	}
}

func TestRunnerHillClimb(t *testing.T) {
	r := New(
		vehicle.New(vehicle.DefaultParams()),
		profile.ReferenceThrottle(20.0),
		profile.ReferenceGrade(),
	)

	result, err := r.Run(context.Background(), Config{Duration: 20.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("run recorded errors: %v", result.Errors)
	}

	var cross60, cross150 float64 = -1, -1
	prevX := result.Records[0].State.X
	for _, rec := range result.Records {
		if rec.State.X < prevX {
			t.Fatalf("position decreased at t=%v", rec.T)
		}
		prevX = rec.State.X

		if cross60 < 0 && rec.State.X >= 60 {
			cross60 = rec.T
		}
		if cross150 < 0 && rec.State.X >= 150 {
			cross150 = rec.T
		}
	}

	if cross60 < 3 || cross60 > 12 {
		t.Errorf("60 m crossed at t=%v, expected mid-run", cross60)
	}
	if cross150 < 12 || cross150 > 19 {
		t.Errorf("150 m crossed at t=%v, expected late in the run", cross150)
	}

	finalX := result.Final().State.X
	if finalX < 150 || finalX > 320 {
		t.Errorf("final position %v outside expected band (150, 320)", finalX)
	}
}

type countingObserver struct {
	n int
}

func (c *countingObserver) OnStep(rec Record) { c.n++ }

func TestRunnerObserver(t *testing.T) {
	r := newTestRunner()
	obs := &countingObserver{}
	r.AddObserver(obs)

	result, err := r.Run(context.Background(), Config{Duration: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if obs.n != len(result.Records) {
		t.Errorf("observer saw %d records, result has %d", obs.n, len(result.Records))
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	r := newTestRunner()

	seen := 0
	err := r.RunWithCallback(context.Background(), Config{Duration: 10.0}, func(rec Record) bool {
		seen++
		return seen < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if seen != 5 {
		t.Errorf("callback called %d times, want 5", seen)
	}
}

func TestStepErrorFormat(t *testing.T) {
	err := &StepError{Step: 150, Time: 1.5, Err: ErrDiverged}
	want := "step 150 (t=1.5000): sim: state diverged (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrDiverged) {
		t.Error("StepError does not unwrap to ErrDiverged")
	}
}

func BenchmarkRun(b *testing.B) {
	cfg := Config{Duration: 20.0, ValidateState: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := New(
			vehicle.New(vehicle.DefaultParams()),
			profile.ReferenceThrottle(20.0),
			profile.ReferenceGrade(),
		)
		if _, err := r.Run(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}
