// Package vehicle implements a forward longitudinal vehicle model.
//
// The model couples a quadratic engine torque map to the drivetrain and a
// piecewise linear tire, and advances with a lagged explicit Euler scheme:
// each [Model.Step] first integrates position, velocity, and engine speed
// using the accelerations computed on the previous call, then recomputes
// both accelerations from the updated state for the next call.
//
//   - [Params]: physical constants (torque map, drivetrain, resistances, tire)
//   - [State]: the five dynamic quantities (x, v, a, w_e, w_e_dot)
//   - [Model]: mutable simulation state with Step/Reset
//
// # Operating Domain
//
// The slip ratio divides by vehicle speed, so the model is meaningful for
// forward motion (v > 0). At v = 0 the slip is not finite and the tire
// saturates at [Params.MaxTireForce]; no guard is applied.
//
// # Thread Safety
//
// Model instances are NOT thread-safe. Parallel studies should give each
// goroutine its own Model (see the sweep package).
package vehicle
