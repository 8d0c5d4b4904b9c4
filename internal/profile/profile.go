// Package profile provides driver and road input schedules for vehicle
// simulations. Throttle profiles are functions of simulated time, road
// profiles functions of vehicle position.
package profile

// Throttle yields the commanded throttle fraction (0..1) at time t.
type Throttle interface {
	At(t float64) float64
}

// Incline yields the road angle in radians at position x.
type Incline interface {
	At(x float64) float64
}
