// Package scenario describes complete simulation setups: vehicle
// parameter overrides, initial operating point, driver throttle and road
// shape. Scenarios load from YAML or JSON files with LONGSIM_ environment
// overrides, and save as YAML.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

type Scenario struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description,omitempty"`
	Duration    float64            `json:"duration" yaml:"duration"`
	Dt          float64            `json:"dt" yaml:"dt"`
	Vehicle     map[string]float64 `json:"vehicle" yaml:"vehicle,omitempty"`
	Initial     InitialConfig      `json:"initial" yaml:"initial"`
	Throttle    ThrottleConfig     `json:"throttle" yaml:"throttle"`
	Road        RoadConfig         `json:"road" yaml:"road"`
}

// InitialConfig sets the starting operating point. Stored accelerations
// always start at zero.
type InitialConfig struct {
	X  float64 `json:"x" yaml:"x"`
	V  float64 `json:"v" yaml:"v"`
	We float64 `json:"w_e" yaml:"w_e"`
}

// ThrottleConfig selects the driver input: "constant" (Level), "ramp"
// (Low to High over the run), or "schedule" (piecewise linear over
// Times/Levels breakpoints).
type ThrottleConfig struct {
	Kind   string    `json:"kind" yaml:"kind"`
	Level  float64   `json:"level" yaml:"level,omitempty"`
	Low    float64   `json:"low" yaml:"low,omitempty"`
	High   float64   `json:"high" yaml:"high,omitempty"`
	Times  []float64 `json:"times" yaml:"times,omitempty"`
	Levels []float64 `json:"levels" yaml:"levels,omitempty"`
}

// RoadConfig selects the road shape: "flat", "reference" (the standard
// test hill), or "segments".
type RoadConfig struct {
	Kind     string          `json:"kind" yaml:"kind"`
	Segments []SegmentConfig `json:"segments" yaml:"segments,omitempty"`
}

// SegmentConfig is a constant-grade stretch ending at Until meters.
// The grade is either Angle (radians) or, when Run is nonzero, the
// rise-over-run pair.
type SegmentConfig struct {
	Until float64 `json:"until" yaml:"until"`
	Angle float64 `json:"angle" yaml:"angle,omitempty"`
	Rise  float64 `json:"rise" yaml:"rise,omitempty"`
	Run   float64 `json:"run" yaml:"run,omitempty"`
}

// Default is the reference hill-climb setup. Loading merges file values
// over it, so partial scenario files stay valid.
func Default() Scenario {
	return Scenario{
		Name:     "custom",
		Duration: 20.0,
		Dt:       0.01,
		Initial:  InitialConfig{X: 0, V: 5.0, We: 100.0},
		Throttle: ThrottleConfig{Kind: "ramp", Low: 0.2, High: 0.5},
		Road:     RoadConfig{Kind: "reference"},
	}
}

const envPrefix = "LONGSIM_"

// Load reads a scenario file (.yaml, .yml, or .json), applies LONGSIM_
// environment overrides (double underscore for nesting, e.g.
// LONGSIM_THROTTLE__LEVEL), and validates the result.
func Load(path string) (*Scenario, error) {
	k := koanf.New(".")

	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = kyaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported scenario format: %s", ext)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(envPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	s := Default()
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the scenario as YAML.
func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", s.Duration)
	}
	if s.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", s.Dt)
	}

	switch s.Throttle.Kind {
	case "constant", "ramp":
	case "schedule":
		if len(s.Throttle.Times) == 0 {
			return fmt.Errorf("schedule throttle needs breakpoints")
		}
		if len(s.Throttle.Times) != len(s.Throttle.Levels) {
			return fmt.Errorf("schedule throttle has %d times but %d levels",
				len(s.Throttle.Times), len(s.Throttle.Levels))
		}
	default:
		return fmt.Errorf("unknown throttle kind: %q", s.Throttle.Kind)
	}

	switch s.Road.Kind {
	case "flat", "reference":
	case "segments":
		for i, seg := range s.Road.Segments {
			if seg.Angle != 0 && seg.Run != 0 {
				return fmt.Errorf("road segment %d: give either angle or rise/run, not both", i)
			}
		}
	default:
		return fmt.Errorf("unknown road kind: %q", s.Road.Kind)
	}

	return nil
}
