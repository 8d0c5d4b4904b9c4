// Package sweep runs grids of simulations over vehicle parameter ranges
// and scores each point with a run metric.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/longsim/longsim/internal/analysis"
	"github.com/longsim/longsim/internal/scenario"
	"github.com/longsim/longsim/internal/vehicle"
)

// Axis is one swept parameter with its sample values.
type Axis struct {
	Param  string
	Values []float64
}

// Grid is the cross product of its axes, scored by a metric key from
// analysis summaries (e.g. "v_max", "distance", "settle_time").
type Grid struct {
	Axes   []Axis
	Metric string
}

// Point is one evaluated grid cell.
type Point struct {
	Overrides map[string]float64
	Score     float64
	Summary   analysis.Summary
	Err       error
}

// Range builds n evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return vals
}

func (g Grid) validate() error {
	if len(g.Axes) == 0 {
		return fmt.Errorf("sweep needs at least one axis")
	}
	probe := vehicle.DefaultParams()
	for _, axis := range g.Axes {
		if len(axis.Values) == 0 {
			return fmt.Errorf("axis %q has no values", axis.Param)
		}
		if err := probe.Set(axis.Param, axis.Values[0]); err != nil {
			return err
		}
	}

	allKeys := analysis.Summary{Settled: true}.Map()
	if _, ok := allKeys[g.Metric]; !ok {
		return fmt.Errorf("unknown sweep metric: %q", g.Metric)
	}
	return nil
}

// expand returns the cross product of the axes in deterministic order,
// first axis outermost.
func (g Grid) expand() []map[string]float64 {
	points := []map[string]float64{{}}
	for _, axis := range g.Axes {
		next := make([]map[string]float64, 0, len(points)*len(axis.Values))
		for _, base := range points {
			for _, val := range axis.Values {
				p := make(map[string]float64, len(base)+1)
				for k, v := range base {
					p[k] = v
				}
				p[axis.Param] = val
				next = append(next, p)
			}
		}
		points = next
	}
	return points
}

// Run evaluates every grid point against the base scenario, spreading
// points over workers (NumCPU when workers <= 0). Points are returned in
// grid order; per-point failures land in Point.Err.
func Run(ctx context.Context, base scenario.Scenario, g Grid, workers int) ([]Point, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	overrides := g.expand()
	points := make([]Point, len(overrides))

	var wg sync.WaitGroup
	chunkSize := (len(overrides) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(overrides) {
			break
		}
		end := start + chunkSize
		if end > len(overrides) {
			end = len(overrides)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					points[i] = Point{Overrides: overrides[i], Err: ctx.Err()}
					continue
				default:
				}
				points[i] = evaluate(ctx, base, overrides[i], g.Metric)
			}
		}(start, end)
	}

	wg.Wait()
	return points, ctx.Err()
}

func evaluate(ctx context.Context, base scenario.Scenario, overrides map[string]float64, metric string) Point {
	s := base
	s.Vehicle = make(map[string]float64, len(base.Vehicle)+len(overrides))
	for k, v := range base.Vehicle {
		s.Vehicle[k] = v
	}
	for k, v := range overrides {
		s.Vehicle[k] = v
	}

	point := Point{Overrides: overrides}

	runner, err := s.Build()
	if err != nil {
		point.Err = err
		return point
	}

	result, err := runner.Run(ctx, s.RunConfig())
	if err != nil {
		point.Err = err
		return point
	}
	if len(result.Errors) > 0 {
		point.Err = result.Errors[0]
		return point
	}

	point.Summary = analysis.Summarize(result.Records)
	score, ok := point.Summary.Map()[metric]
	if !ok {
		point.Err = fmt.Errorf("metric %q not produced by run (did it settle?)", metric)
		return point
	}
	point.Score = score
	return point
}

// Best picks the highest-scoring point (or lowest when maximize is
// false), skipping failed points. The boolean is false when every point
// failed.
func Best(points []Point, maximize bool) (Point, bool) {
	found := false
	var best Point
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		if !found {
			best = p
			found = true
			continue
		}
		if maximize && p.Score > best.Score {
			best = p
		}
		if !maximize && p.Score < best.Score {
			best = p
		}
	}
	return best, found
}
