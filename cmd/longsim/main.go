package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/longsim/longsim/internal/analysis"
	"github.com/longsim/longsim/internal/logging"
	"github.com/longsim/longsim/internal/scenario"
	"github.com/longsim/longsim/internal/sim"
	"github.com/longsim/longsim/internal/store"
	"github.com/longsim/longsim/internal/sweep"
	"github.com/longsim/longsim/internal/viz"
)

var (
	dataDir    string
	verbosity  int
	configFile string
	dt         float64
	duration   float64
	throttle   float64
	noSave     bool
	positions  string
	outFile    string
	svgFile    string
	frameRate  int
	// Sweep flags
	sweepParams []string
	sweepMetric string
	maximize    bool
	workers     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "longsim",
		Short: "longitudinal vehicle dynamics lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbosity(verbosity)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".longsim", "data directory")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (-v info, -vv debug)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml or json)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().Float64Var(&throttle, "throttle", 0, "constant throttle override")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip storing the run")
	runCmd.Flags().StringVar(&positions, "positions", "", "also write the two-column position trace to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also render the position trajectory to this SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary statistics for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportPositionsCmd := &cobra.Command{
		Use:   "export-positions [run_id]",
		Short: "export the two-column position trace",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPositions,
	}
	exportPositionsCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [preset]",
		Short: "emit a preset as an editable scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  emitScenario,
	}
	scenarioCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid sweep over vehicle parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "axis as name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "terminal_v", "score metric")
	sweepCmd.Flags().BoolVar(&maximize, "max", true, "maximize the metric (false to minimize)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = NumCPU)")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml or json)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step loop",
		RunE:  benchRuns,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "live dashboard of a running scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml or json)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd,
		exportPositionsCmd, scenarioCmd, presetsCmd, sweepCmd, benchCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from --config, a preset name, or the
// default, in that order.
func loadScenario(args []string) (*scenario.Scenario, error) {
	if configFile != "" {
		return scenario.Load(configFile)
	}
	name := "grade-climb"
	if len(args) > 0 {
		name = args[0]
	}
	s, ok := scenario.Preset(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s (available: %s)",
			name, strings.Join(scenario.ListPresets(), ", "))
	}
	return &s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runScenario(cmd *cobra.Command, args []string) error {
	log := logging.New("run")

	s, err := loadScenario(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		s.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		s.Duration = duration
	}
	if cmd.Flags().Changed("throttle") {
		s.Throttle = scenario.ThrottleConfig{Kind: "constant", Level: throttle}
	}
	if err := s.Validate(); err != nil {
		return err
	}

	runner, err := s.Build()
	if err != nil {
		return err
	}
	runner.SetLogger(log)

	ctx, cancel := signalContext()
	defer cancel()

	log.Info().Str("scenario", s.Name).Float64("duration", s.Duration).Msg("starting run")
	start := time.Now()
	result, err := runner.Run(ctx, s.RunConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	summary := analysis.Summarize(result.Records)

	fmt.Printf("scenario: %s\n", s.Name)
	fmt.Printf("completed in %v (%d steps)\n", elapsed, result.StepsTaken)
	for _, rerr := range result.Errors {
		fmt.Printf("warning: %v\n", rerr)
	}

	final := result.Final()
	fmt.Printf("\nfinal state at t=%.2fs:\n", final.T)
	fmt.Printf("  position:     %.2f m\n", final.State.X)
	fmt.Printf("  velocity:     %.3f m/s\n", final.State.V)
	fmt.Printf("  engine speed: %.2f rad/s\n", final.State.We)

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range summary.Map() {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, val)
	}
	w.Flush()

	if positions != "" {
		if err := store.ExportPositions(positions, result.Records); err != nil {
			return err
		}
		fmt.Printf("\npositions written to %s\n", positions)
	}

	if noSave {
		return nil
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(s.Name, runner.Model().Params, result, summary.Map())
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(records))

	series := []struct {
		caption string
		get     func(sim.Record) float64
	}{
		{"position (m)", func(r sim.Record) float64 { return r.State.X }},
		{"velocity (m/s)", func(r sim.Record) float64 { return r.State.V }},
		{"engine speed (rad/s)", func(r sim.Record) float64 { return r.State.We }},
		{"throttle", func(r sim.Record) float64 { return r.Throttle }},
	}

	for _, sr := range series {
		data := make([]float64, len(records))
		for i, rec := range records {
			data[i] = sr.get(rec)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgFile != "" {
		times := make([]float64, len(records))
		xs := make([]float64, len(records))
		for i, rec := range records {
			times[i] = rec.T
			xs[i] = rec.State.X
		}
		svg := viz.CanvasToSVG(viz.PlotSeries(times, xs, 100, 25), 4.0)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("trajectory written to %s\n", svgFile)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data")
	}

	summary := analysis.Summarize(records)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "distance\t%.2f m\n", summary.Distance)
	fmt.Fprintf(w, "velocity\t%.3f .. %.3f m/s (mean %.3f, σ %.3f)\n",
		summary.VMin, summary.VMax, summary.VMean, summary.VStdDev)
	fmt.Fprintf(w, "peak |accel|\t%.3f m/s²\n", summary.PeakAccel)
	fmt.Fprintf(w, "mean engine\t%.1f rad/s\n", summary.MeanEngine)
	if summary.Settled {
		fmt.Fprintf(w, "settled\tat t=%.2fs, terminal velocity %.3f m/s\n",
			summary.SettleTime, summary.TerminalV)
	} else {
		fmt.Fprintf(w, "settled\tno\n")
	}
	w.Flush()

	times := make([]float64, len(records))
	xs := make([]float64, len(records))
	for i, rec := range records {
		times[i] = rec.T
		xs[i] = rec.State.X
	}
	fmt.Println("\nposition crossings:")
	for _, mark := range []float64{60, 150} {
		if t, ok := analysis.CrossingTime(times, xs, mark); ok {
			fmt.Printf("  %.0f m at t=%.2fs\n", mark, t)
		} else {
			fmt.Printf("  %.0f m not reached\n", mark)
		}
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, records)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "v", "a", "w_e", "w_e_dot", "throttle", "incline"}); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, rec := range records {
		row := []string{
			ff(rec.T), ff(rec.State.X), ff(rec.State.V), ff(rec.State.A),
			ff(rec.State.We), ff(rec.State.WeDot), ff(rec.Throttle), ff(rec.Incline),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportPositions(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return store.ExportPositions(outFile, records)
	}
	return store.WritePositions(os.Stdout, records)
}

func emitScenario(cmd *cobra.Command, args []string) error {
	s, ok := scenario.Preset(args[0])
	if !ok {
		return fmt.Errorf("unknown preset: %s (available: %s)",
			args[0], strings.Join(scenario.ListPresets(), ", "))
	}

	if outFile != "" {
		return scenario.Save(outFile, &s)
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tDESCRIPTION")
	for _, name := range scenario.ListPresets() {
		s, _ := scenario.Preset(name)
		fmt.Fprintf(w, "%s\t%.0fs\t%s\n", s.Name, s.Duration, s.Description)
	}
	return w.Flush()
}

// parseAxis reads "name=lo:hi:n" into a sweep axis.
func parseAxis(arg string) (sweep.Axis, error) {
	name, spec, ok := strings.Cut(arg, "=")
	if !ok {
		return sweep.Axis{}, fmt.Errorf("axis %q: want name=lo:hi:n", arg)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return sweep.Axis{}, fmt.Errorf("axis %q: want name=lo:hi:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", arg, err)
	}
	if n < 1 {
		return sweep.Axis{}, fmt.Errorf("axis %q: need at least one sample", arg)
	}
	return sweep.Axis{Param: name, Values: sweep.Range(lo, hi, n)}, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("need at least one --param axis")
	}

	s, err := loadScenario(args)
	if err != nil {
		return err
	}

	grid := sweep.Grid{Metric: sweepMetric}
	for _, arg := range sweepParams {
		axis, err := parseAxis(arg)
		if err != nil {
			return err
		}
		grid.Axes = append(grid.Axes, axis)
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	points, err := sweep.Run(ctx, *s, grid, workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("swept %d points in %v\n\n", len(points), elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(grid.Axes)+1)
	for _, axis := range grid.Axes {
		header = append(header, strings.ToUpper(axis.Param))
	}
	header = append(header, strings.ToUpper(sweepMetric))
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, p := range points {
		cols := make([]string, 0, len(grid.Axes)+1)
		for _, axis := range grid.Axes {
			cols = append(cols, fmt.Sprintf("%.4g", p.Overrides[axis.Param]))
		}
		if p.Err != nil {
			cols = append(cols, fmt.Sprintf("error: %v", p.Err))
		} else {
			cols = append(cols, fmt.Sprintf("%.6f", p.Score))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	w.Flush()

	if best, ok := sweep.Best(points, maximize); ok {
		fmt.Printf("\nbest %s = %.6f at", sweepMetric, best.Score)
		for _, axis := range grid.Axes {
			fmt.Printf(" %s=%.4g", axis.Param, best.Overrides[axis.Param])
		}
		fmt.Println()
	}

	return nil
}

func benchRuns(cmd *cobra.Command, args []string) error {
	durations := []float64{10.0, 50.0, 100.0}
	dts := []float64{0.001, 0.01, 0.1}

	base, _ := scenario.Preset("steady-throttle")

	fmt.Println("benchmarking step loop")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			s := base
			s.Duration = dur
			s.Dt = step

			runner, err := s.Build()
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := runner.Run(context.Background(), s.RunConfig())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(args)
	if err != nil {
		return err
	}

	runner, err := s.Build()
	if err != nil {
		return err
	}

	// Show a little road past the reference hill, or scale with the
	// last segment on custom scenarios.
	span := 250.0
	if s.Road.Kind == "segments" && len(s.Road.Segments) > 0 {
		span = s.Road.Segments[len(s.Road.Segments)-1].Until * 1.4
	}

	d := viz.NewDashboard(runner.Model(), runner.Throttle(), runner.Incline(), s.Name, span, frameRate)

	p := tea.NewProgram(d)
	_, err = p.Run()
	return err
}
