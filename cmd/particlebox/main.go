package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlebox/internal/analysis"
	"github.com/san-kum/particlebox/internal/automation"
	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/export"
	"github.com/san-kum/particlebox/internal/metrics"
	"github.com/san-kum/particlebox/internal/server"
	"github.com/san-kum/particlebox/internal/sim"
	"github.com/san-kum/particlebox/internal/storage"
	"github.com/san-kum/particlebox/internal/viz"
	"github.com/san-kum/particlebox/internal/walk"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	particles  int
	ticks      int
	seed       int64
	frameRate  int
	runName    string
	noSave     bool
	batchRuns  int
	theme      string
	addr       string
	walkSteps  int
	outFile    string
	svgTick    int
	traceID    uint64
	sweepParam string
	sweepMin   int
	sweepMax   int
	sweepSteps int
	histBins   int
	phaseID    uint64
	phaseAxis  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "particlebox",
		Short:        "bounded 2D particle ensemble",
		SilenceUsage: true,
		RunE:         runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	addEnsembleFlags(rootCmd)
	rootCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	rootCmd.Flags().StringVar(&theme, "theme", "neon", "color theme ("+fmt.Sprint(viz.ThemeNames())+")")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the ensemble in the terminal",
		RunE:  runLive,
	}
	addEnsembleFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	liveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record the result",
		RunE:  runHeadless,
	}
	addEnsembleFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	runCmd.Flags().StringVar(&runName, "name", "box", "run name")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")
	runCmd.Flags().IntVar(&batchRuns, "runs", 1, "run this many seeds in parallel and report mean metrics")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the ensemble over websocket",
		RunE:  serve,
	}
	addEnsembleFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "ticks per second")

	walkCmd := &cobra.Command{
		Use:   "walk",
		Short: "plot a lattice random walk",
		RunE:  runWalk,
	}
	walkCmd.Flags().IntVar(&walkSteps, "steps", 1000, "number of steps")
	walkCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "speed distribution and phase portrait of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&histBins, "bins", 12, "speed histogram bins")
	analyzeCmd.Flags().Uint64Var(&phaseID, "trace", 1, "particle handle for the phase portrait")
	analyzeCmd.Flags().StringVar(&phaseAxis, "axis", "x", "phase portrait axis (x or y)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a recorded frame or a particle trace as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&svgTick, "tick", 0, "frame to render")
	svgCmd.Flags().Uint64Var(&traceID, "trace", 0, "trace this particle handle across all frames instead")
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "play a scripted scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one ensemble parameter and compare metrics",
		RunE:  runSweep,
	}
	addEnsembleFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "max_speed", "parameter to sweep")
	sweepCmd.Flags().IntVar(&sweepMin, "min", 2, "first value")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportJSONCmd, analyzeCmd, svgCmd, presetsCmd, initCmd, serveCmd, scriptCmd, sweepCmd, walkCmd)
	return rootCmd
}

func addEnsembleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "initial random particles")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Run.Particles = particles
	}
	if flags.Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = frameRate
		cfg.Server.FPS = frameRate
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("seed") {
		cfg.Ensemble.Seed = seed
	}
	if cfg.Ensemble.Seed == 0 {
		cfg.Ensemble.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newManager(cfg *config.Config) (*ensemble.Manager, error) {
	mgr, err := ensemble.New(cfg.Ensemble)
	if err != nil {
		return nil, err
	}
	mgr.Simulate(cfg.Run.Particles)
	return mgr, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	model := viz.NewModel(mgr, cfg.Run.FPS).WithTheme(theme)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if batchRuns > 1 {
		return runBatch(cmd.Context(), out, cfg)
	}

	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	runner := sim.New(mgr)
	for _, m := range metrics.Default(mgr.Bounds()) {
		runner.AddMetric(m)
	}

	fmt.Fprintf(out, "running %d particles for %d ticks...\n", mgr.Len(), cfg.Run.Ticks)
	start := time.Now()

	result, err := runner.Run(cmd.Context(), sim.Config{
		Ticks:         cfg.Run.Ticks,
		Record:        cfg.Run.Record && !noSave,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "warning: %v\n", e)
	}

	fmt.Fprintf(out, "completed in %v\n", time.Since(start))
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runName, cfg.Run.Particles, cfg.Ensemble, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintf(out, "ticks: %d\n", result.TicksTaken)
	fmt.Fprintln(out, "\nmetrics:")
	return printMetrics(out, result.Metrics)
}

func runBatch(ctx context.Context, out io.Writer, cfg *config.Config) error {
	bounds := cfg.Ensemble.Bounds()
	batch := sim.NewBatch(cfg.Ensemble, cfg.Run.Particles, batchRuns, cfg.Ensemble.Seed,
		func() []sim.Metric { return metrics.Default(bounds) })

	fmt.Fprintf(out, "running %d seeds of %d particles for %d ticks...\n", batchRuns, cfg.Run.Particles, cfg.Run.Ticks)
	results, err := batch.Run(ctx, sim.Config{Ticks: cfg.Run.Ticks, ValidateState: true})
	if err != nil {
		return err
	}

	mean := make(map[string]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			mean[name] += v / float64(len(results))
		}
	}
	fmt.Fprintln(out, "\nmean metrics:")
	return printMetrics(out, mean)
}

func printMetrics(out io.Writer, values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, values[name])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tTICKS\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Ticks,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	energy := make([]float64, len(frames))
	speed := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = f.KineticEnergy()
		speed[i] = f.MeanSpeed()
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "frames: %d\n\n", len(frames))
	fmt.Fprintln(out, asciigraph.Plot(energy, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("kinetic energy")))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(speed, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("mean speed")))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return storage.ExportJSON(w, meta, frames)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	hist := analysis.SpeedHistogram(frames, histBins)
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "speed samples: %d\n\n", hist.Total())
	fmt.Fprint(out, hist.ASCII(40))

	portrait := analysis.PhasePortrait(frames, ensemble.Handle(phaseID), phaseAxis)
	if portrait == nil {
		return fmt.Errorf("axis must be x or y, got %q", phaseAxis)
	}
	if len(portrait.Points) == 0 {
		fmt.Fprintf(out, "\nparticle %d not found in run\n", phaseID)
		return nil
	}
	fmt.Fprintf(out, "\nphase portrait of particle %d (%s vs v%s):\n", phaseID, phaseAxis, phaseAxis)
	fmt.Fprint(out, analysis.PhasePortraitToASCII(portrait, 70, 16))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	bounds := meta.Ensemble.Bounds()
	var svg string
	if traceID != 0 {
		svg = export.TrajectorySVG(bounds, frames, ensemble.Handle(traceID), "#00ff88")
	} else {
		idx := sort.Search(len(frames), func(i int) bool { return frames[i].Tick >= svgTick })
		if idx == len(frames) || frames[idx].Tick != svgTick {
			return fmt.Errorf("run %s has no frame at tick %d", meta.ID, svgTick)
		}
		svg = export.FrameSVG(bounds, frames[idx], meta.Ensemble.ColorScale)
	}

	if outFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if scenario.Ensemble.Seed == 0 {
		scenario.Ensemble.Seed = time.Now().UnixNano()
	}
	out := cmd.OutOrStdout()

	name := scenario.Name
	if name == "" {
		name = "script"
	}
	fmt.Fprintf(out, "playing %s for %d ticks...\n", name, scenario.Ticks)

	result, err := scenario.Run(cmd.Context(), metrics.Default(scenario.Ensemble.Bounds()), !noSave, out)
	if err != nil {
		return err
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, 0, scenario.Ensemble, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintln(out, "\nmetrics:")
	return printMetrics(out, result.Metrics)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	bounds := cfg.Ensemble.Bounds()

	sweep := &automation.ParameterSweep{
		Base:      cfg.Ensemble,
		Param:     sweepParam,
		Min:       sweepMin,
		Max:       sweepMax,
		NumSteps:  sweepSteps,
		Particles: cfg.Run.Particles,
		Ticks:     cfg.Run.Ticks,
		Metrics:   func() []sim.Metric { return metrics.Default(bounds) },
	}
	results, err := sweep.Run(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s", strings.ToUpper(sweepParam))
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%d", r.Value)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tSPEED\tRADIUS\tMASS\tCORNER\tPAIRWISE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		e := p.Ensemble
		corner := e.Corner
		if corner == "" {
			corner = "precedence"
		}
		fmt.Fprintf(w, "%s\t%d\t%d-%d\t%d-%d\t%d-%d\t%s\t%t\n",
			name, p.Run.Particles,
			e.MinSpeed, e.MaxSpeed,
			e.MinRadius, e.MaxRadius,
			e.MinMass, e.MaxMass,
			corner, e.Pairwise,
		)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(mgr, cfg.Server.FPS).ListenAndServe(ctx, cfg.Server.Addr)
}

func runWalk(cmd *cobra.Command, args []string) error {
	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	path, err := walk.Generate(rand.New(rand.NewSource(s)), walkSteps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, asciigraph.PlotMany([][]float64{path.X, path.Y, path.Z},
		asciigraph.Height(15), asciigraph.Width(70),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.Caption("x y z")))
	fmt.Fprintf(out, "\nsteps: %d\n", path.Len())
	fmt.Fprintf(out, "displacement: %.4f\n", path.Displacement())
	return nil
}
