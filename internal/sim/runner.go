// Package sim drives a vehicle model through a fixed-step run, sampling
// state and inputs each step.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/longsim/longsim/internal/profile"
	"github.com/longsim/longsim/internal/vehicle"
)

// Observer is notified of every sample as it is produced.
type Observer interface {
	OnStep(rec Record)
}

type Config struct {
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{Duration: 20.0, ValidateState: true}
}

// Runner owns a model and its input profiles. Not safe for concurrent
// use; parallel studies need a Runner per goroutine.
type Runner struct {
	model     *vehicle.Model
	throttle  profile.Throttle
	incline   profile.Incline
	observers []Observer
	log       zerolog.Logger
}

func New(m *vehicle.Model, throttle profile.Throttle, incline profile.Incline) *Runner {
	return &Runner{
		model:    m,
		throttle: throttle,
		incline:  incline,
		log:      zerolog.Nop(),
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) SetLogger(l zerolog.Logger) { r.log = l }

// Model exposes the underlying vehicle, for live tuning.
func (r *Runner) Model() *vehicle.Model { return r.model }

// Throttle and Incline expose the input profiles, for harnesses that
// drive the model themselves (the live view).
func (r *Runner) Throttle() profile.Throttle { return r.throttle }
func (r *Runner) Incline() profile.Incline   { return r.incline }

// Run advances the model for cfg.Duration seconds of simulated time.
// Samples are taken before the first step and after every step; the step
// after a sample applies that sample's inputs. With cfg.ValidateState the
// run stops early on a non-finite state, recording the failure in
// Result.Errors.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	dt := r.model.Params.Dt
	steps := int(math.Round(cfg.Duration / dt))

	result := &Result{
		Records: make([]Record, 0, steps+1),
		Errors:  make([]error, 0),
	}

	rec := r.sample(0)
	result.Records = append(result.Records, rec)
	r.notify(rec)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.model.Step(rec.Throttle, rec.Incline)

		if cfg.ValidateState && !r.model.State().IsValid() {
			serr := &StepError{Step: i, Time: rec.T, Err: ErrDiverged}
			result.Errors = append(result.Errors, serr)
			r.log.Warn().Int("step", i).Float64("t", rec.T).Msg("state diverged, stopping run")
			break
		}

		result.StepsTaken++
		rec = r.sample(float64(i+1) * dt)
		result.Records = append(result.Records, rec)
		r.notify(rec)
	}

	return result, nil
}

// RunWithCallback streams samples to fn instead of collecting them.
// Returning false from fn stops the run.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, fn func(Record) bool) error {
	if err := r.validate(cfg); err != nil {
		return err
	}

	dt := r.model.Params.Dt
	steps := int(math.Round(cfg.Duration / dt))

	rec := r.sample(0)
	if !fn(rec) {
		return nil
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.model.Step(rec.Throttle, rec.Incline)

		if cfg.ValidateState && !r.model.State().IsValid() {
			return &StepError{Step: i, Time: rec.T, Err: ErrDiverged}
		}

		rec = r.sample(float64(i+1) * dt)
		if !fn(rec) {
			return nil
		}
	}

	return nil
}

func (r *Runner) validate(cfg Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return r.model.Params.Validate()
}

func (r *Runner) sample(t float64) Record {
	st := r.model.State()
	return Record{
		T:        t,
		State:    st,
		Throttle: r.throttle.At(t),
		Incline:  r.incline.At(st.X),
	}
}

func (r *Runner) notify(rec Record) {
	for _, obs := range r.observers {
		obs.OnStep(rec)
	}
}
