package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrDiverged indicates the vehicle state picked up a NaN or Inf.
	ErrDiverged = errors.New("sim: state diverged (NaN or Inf detected)")
)

// StepError wraps an error with the step it occurred on.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
