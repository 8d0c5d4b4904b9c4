package scenario

import "sort"

// Presets are the built-in scenarios.
var Presets = map[string]Scenario{
	"grade-climb": {
		Name:        "grade-climb",
		Description: "Throttle ramp up the standard two-section hill",
		Duration:    20.0,
		Dt:          0.01,
		Initial:     InitialConfig{X: 0, V: 5.0, We: 100.0},
		Throttle:    ThrottleConfig{Kind: "ramp", Low: 0.2, High: 0.5},
		Road:        RoadConfig{Kind: "reference"},
	},
	"steady-throttle": {
		Name:        "steady-throttle",
		Description: "Hold 20% throttle on a flat road until the speed settles",
		Duration:    100.0,
		Dt:          0.01,
		Initial:     InitialConfig{X: 0, V: 5.0, We: 100.0},
		Throttle:    ThrottleConfig{Kind: "constant", Level: 0.2},
		Road:        RoadConfig{Kind: "flat"},
	},
	"coast-down": {
		Name:        "coast-down",
		Description: "Release the throttle at speed and let drag and engine braking work",
		Duration:    30.0,
		Dt:          0.01,
		Initial:     InitialConfig{X: 0, V: 30.0, We: 250.0},
		Throttle:    ThrottleConfig{Kind: "constant", Level: 0},
		Road:        RoadConfig{Kind: "flat"},
	},
}

func Preset(name string) (Scenario, bool) {
	s, ok := Presets[name]
	return s, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
