package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/okaryn/plife/internal/automation"
	"github.com/okaryn/plife/internal/config"
	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/experiment"
	"github.com/okaryn/plife/internal/export"
	"github.com/okaryn/plife/internal/field"
	"github.com/okaryn/plife/internal/force"
	"github.com/okaryn/plife/internal/metrics"
	"github.com/okaryn/plife/internal/storage"
	"github.com/okaryn/plife/internal/stream"
	"github.com/okaryn/plife/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	particles   int
	colors      int
	dt          float64
	beta        float64
	friction    float64
	seed        int64
	policy      string
	placement   string
	ticks       int
	sampleEvery int
	// Config file
	configFile string
	// Preset name
	preset string
	// Frame rate for live view
	frameRate int
	// Streaming server
	listenAddr string
	tickRate   int
	// Sweep bounds
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// Seed trials
	numTrials int
	// SVG render
	frameIndex int
	outFile    string
	imgWidth   int
	imgHeight  int
	rotX       float64
	rotY       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plife",
		Short: "3d particle life simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view when no command given
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".plife", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "frame sampling interval")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	matrixCmd := &cobra.Command{
		Use:   "matrix [policy]",
		Short: "print an attraction matrix",
		Args:  cobra.ExactArgs(1),
		RunE:  printMatrix,
	}
	matrixCmd.Flags().IntVar(&colors, "colors", config.DefaultColors, "number of colors")
	matrixCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %d particles, %d colors, %s matrix\n",
					name, p.Particles, p.Colors, p.Policy)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark engine throughput",
		RunE:  benchEngine,
	}
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			return st.ExportJSON(os.Stdout, args[0])
		},
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a stored frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFrame,
	}
	renderCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index (-1 for last)")
	renderCmd.Flags().StringVar(&outFile, "out", "frame.svg", "output file")
	renderCmd.Flags().IntVar(&imgWidth, "width", 800, "image width")
	renderCmd.Flags().IntVar(&imgHeight, "height", 600, "image height")
	renderCmd.Flags().Float64Var(&rotX, "rot-x", 0.4, "camera rotation around x")
	renderCmd.Flags().Float64Var(&rotY, "rot-y", 0.6, "camera rotation around y")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream live frames over websocket",
		RunE:  serveStream,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8420", "listen address")
	serveCmd.Flags().IntVar(&tickRate, "tick-rate", 30, "simulation ticks per second")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep a simulation parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks per sweep point")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lower bound")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "upper bound")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep points")

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "repeat a run under consecutive seeds",
		RunE:  runTrials,
	}
	addSimFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks per trial")
	trialsCmd.Flags().IntVar(&numTrials, "n", 5, "number of trials")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, matrixCmd, presetsCmd,
		benchCmd, exportCSVCmd, exportJSONCmd, renderCmd, serveCmd, scenarioCmd,
		sweepCmd, trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	cmd.Flags().IntVar(&colors, "colors", config.DefaultColors, "number of colors")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "force law shape parameter")
	cmd.Flags().Float64Var(&friction, "friction", config.DefaultFriction, "velocity retention per tick")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&policy, "policy", force.PolicyIdentity, "attraction matrix policy")
	cmd.Flags().StringVar(&placement, "placement", field.PlacementUniform, "initial placement")
}

// resolveConfig merges preset, config file and CLI flags into one
// config. Precedence from lowest to highest: defaults, preset, config
// file, flags the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("colors") {
		cfg.Colors = colors
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("beta") {
		cfg.Beta = beta
	}
	if cmd.Flags().Changed("friction") {
		cfg.Friction = friction
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("policy") {
		cfg.Policy = policy
	}
	if cmd.Flags().Changed("placement") {
		cfg.Placement = placement
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(experiment.Config{
		Params:      cfg.Params(),
		Policy:      cfg.Policy,
		Placement:   cfg.Placement,
		Ticks:       cfg.Ticks,
		SampleEvery: cfg.SampleEvery,
	})
	if err != nil {
		return err
	}

	fmt.Printf("running %d particles, %d colors, %s matrix...\n",
		cfg.Particles, cfg.Colors, cfg.Policy)
	start := time.Now()

	result, err := exp.Run(signalContext())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Params(), cfg.Policy, cfg.Placement, exp.Palette(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d, sampled frames: %d\n", result.Ticks, len(result.Frames))
	if n := len(result.Anomalies); n > 0 {
		fmt.Printf("numeric anomalies: %d\n", n)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.Params()
	matrix, err := force.Build(cfg.Policy, params.Colors, params.Seed)
	if err != nil {
		return err
	}

	ps, palette, err := field.New(params, cfg.Placement)
	if err != nil {
		return err
	}

	eng, err := engine.New(params, matrix, ps)
	if err != nil {
		return err
	}

	if frameRate <= 0 {
		frameRate = 30
	}
	m := viz.NewModel(eng, palette, cfg.Placement, frameRate)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tCOLORS\tPOLICY\tTICKS\tANOMALIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Colors,
			run.Policy,
			run.Ticks,
			run.Anomalies,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d, colors: %d, policy: %s\n", meta.Particles, meta.Colors, meta.Policy)
	fmt.Printf("frames: %d\n\n", len(frames))

	speed := make([]float64, len(frames))
	kinetic := make([]float64, len(frames))
	for i, f := range frames {
		speed[i] = metrics.Speed(f.Particles)
		var ke float64
		for _, p := range f.Particles {
			ke += 0.5 * p.Vel.LengthSq()
		}
		if len(f.Particles) > 0 {
			ke /= float64(len(f.Particles))
		}
		kinetic[i] = ke
	}

	fmt.Println(asciigraph.Plot(speed,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean speed"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(kinetic,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy per particle"),
	))

	return nil
}

func printMatrix(cmd *cobra.Command, args []string) error {
	m, err := force.Build(args[0], colors, seed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range m.Rows() {
		for _, v := range row {
			fmt.Fprintf(w, "%+.3f\t", v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func benchEngine(cmd *cobra.Command, args []string) error {
	counts := []int{200, 500, 1000, 2000}
	tickCounts := []int{50, 200}

	fmt.Println("benchmarking engine")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range counts {
		for _, tk := range tickCounts {
			params := config.DefaultConfig().Params()
			params.Particles = n
			params.Seed = seed

			matrix := force.NewIdentity(params.Colors)
			ps, _, err := field.New(params, field.PlacementUniform)
			if err != nil {
				return err
			}
			eng, err := engine.New(params, matrix, ps)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < tk; i++ {
				eng.Step()
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
				n, tk, elapsed.Round(time.Millisecond), float64(tk)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"tick", "time", "index", "x", "y", "z", "vx", "vy", "vz", "color"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		for i, p := range f.Particles {
			row := []string{
				strconv.Itoa(f.Tick),
				strconv.FormatFloat(f.Time, 'f', 6, 64),
				strconv.Itoa(i),
				strconv.FormatFloat(p.Pos.X, 'f', 9, 64),
				strconv.FormatFloat(p.Pos.Y, 'f', 9, 64),
				strconv.FormatFloat(p.Pos.Z, 'f', 9, 64),
				strconv.FormatFloat(p.Vel.X, 'f', 9, 64),
				strconv.FormatFloat(p.Vel.Y, 'f', 9, 64),
				strconv.FormatFloat(p.Vel.Z, 'f', 9, 64),
				strconv.Itoa(p.Color),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func renderFrame(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to render")
	}

	palette, err := st.LoadPalette(runID)
	if err != nil {
		return err
	}

	idx := frameIndex
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}

	cam := viz.NewCamera()
	cam.RotateX(rotX)
	cam.RotateY(rotY)

	svg := export.FrameToSVG(frames[idx].Particles, palette, cam, imgWidth, imgHeight, 2.5)
	if err := os.WriteFile(outFile, []byte(svg), 0o644); err != nil {
		return err
	}

	fmt.Printf("rendered frame %d (tick %d) to %s\n", idx, frames[idx].Tick, outFile)
	return nil
}

func serveStream(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.Params()
	matrix, err := force.Build(cfg.Policy, params.Colors, params.Seed)
	if err != nil {
		return err
	}
	ps, palette, err := field.New(params, cfg.Placement)
	if err != nil {
		return err
	}
	eng, err := engine.New(params, matrix, ps)
	if err != nil {
		return err
	}

	srv := stream.New(eng, palette, tickRate)
	fmt.Printf("streaming on ws://%s/ws\n", listenAddr)
	return srv.ListenAndServe(signalContext(), listenAddr)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(signalContext(), scenario)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	for i, r := range results {
		fmt.Printf("\nstep %d:\n", i+1)
		for name, val := range r.Result.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
		if r.Step.SaveAs != "" {
			cfg := r.Experiment.Config()
			runID, err := st.Save(cfg.Params, cfg.Policy, cfg.Placement, r.Experiment.Palette(), r.Result)
			if err != nil {
				return err
			}
			fmt.Printf("  saved as %s\n", runID)
		}
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Ticks = ticks

	sweep := &automation.ParameterSweep{
		Base: experiment.Config{
			Params:      cfg.Params(),
			Policy:      cfg.Policy,
			Placement:   cfg.Placement,
			Ticks:       cfg.Ticks,
			SampleEvery: cfg.SampleEvery,
		},
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}

	results, err := automation.RunSweep(signalContext(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSEGREGATION\tMEAN_SPEED\tANOMALIES\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%d\n",
			r.ParamValue, r.Metrics["segregation"], r.Metrics["mean_speed"], r.Anomalies)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Ticks = ticks

	trials := &automation.SeedTrials{
		Base: experiment.Config{
			Params:      cfg.Params(),
			Policy:      cfg.Policy,
			Placement:   cfg.Placement,
			Ticks:       cfg.Ticks,
			SampleEvery: cfg.SampleEvery,
		},
		BaseSeed:  cfg.Seed,
		NumTrials: numTrials,
	}

	results, err := automation.RunSeedTrials(signalContext(), trials)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSEGREGATION\tMEAN_SPEED\tANOMALIES")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%d\n",
			r.Seed, r.Metrics["segregation"], r.Metrics["mean_speed"], r.Anomalies)
	}
	return w.Flush()
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
