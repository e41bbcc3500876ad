package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravlab/internal/automation"
	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/experiment"
	"github.com/san-kum/gravlab/internal/export"
	"github.com/san-kum/gravlab/internal/logging"
	"github.com/san-kum/gravlab/internal/scenario"
	"github.com/san-kum/gravlab/internal/storage"
	"github.com/san-kum/gravlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	preset     string
	configFile string
	integrator string

	frames     int
	fps        float64
	scriptFile string

	sweepFrom  float64
	sweepTo    float64
	sweepSteps int

	outFile   string
	svgWidth  int
	svgHeight int

	logger *slog.Logger
)

// main registers the commands and runs the preset menu when no subcommand
// is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravlab",
		Short:         "interactive n-body gravity sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (warn, info, debug, trace)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")

	scenarioFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&preset, "preset", "default", "preset scenario")
		cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides --preset")
		cmd.Flags().StringVar(&integrator, "integrator", "", "integrator override (symplectic, euler, leapfrog)")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario headless and record it",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 600, "number of frames")
	runCmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")
	runCmd.Flags().StringVar(&scriptFile, "script", "", "parameter script (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance from the anchor over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's trajectory CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's orbits as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a scenario over a range of G",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.4, "first G")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2.4, "last G")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of G values")
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	sweepCmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportSVGCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = logging.NewLogger(logLevel, os.Stderr)
		}
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger() error {
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	logger = logging.NewLogger(logLevel, w)
	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if integrator != "" {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// the terminal belongs to the view
	liveLogger := logger
	if logFile == "" {
		liveLogger = logging.Discard()
	}
	s, err := scenario.New(cfg, scenario.WithLogger(liveLogger))
	if err != nil {
		return err
	}
	return viz.RunLive(s, liveLogger)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := scenario.New(cfg, scenario.WithLogger(logger))
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{Frames: frames, FPS: fps}, s)
	exp.SetLogger(logger)
	for _, m := range experiment.DefaultMetrics(cfg) {
		exp.AddMetric(m)
	}
	if scriptFile != "" {
		script, err := automation.LoadScript(scriptFile)
		if err != nil {
			return err
		}
		exp.SetDriver(automation.NewPlayer(script, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scenario", "scenario", s.Name(), "frames", frames, "fps", fps, "integrator", s.Integrator())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	initial := s.InitialParams()
	runID, err := st.Save(storage.RunMetadata{
		Scenario:  s.Name(),
		FPS:       fps,
		SubSteps:  s.SubSteps(),
		G:         initial.G,
		TimeScale: initial.TimeScale,
		Script:    scriptFile,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  sim time: %.2fs\n", result.Frames, result.SimTime)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	fmt.Println("\ntasks:")
	for _, t := range s.Tasks() {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Printf("  [%s] %s\n", mark, t.Description)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tSIM\tG\tINTEG\tTASKS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.3f\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.SimTime,
			run.G,
			run.Integrator,
			run.TasksDone,
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

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(traj.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(traj.Times))

	anchor := -1
	for i, b := range meta.Bodies {
		if b.Fixed {
			anchor = i
			break
		}
	}

	const maxPlots = 4
	plotted := 0
	for i, b := range meta.Bodies {
		if b.Fixed || i >= len(traj.Positions) || plotted == maxPlots {
			continue
		}

		var data []float64
		if anchor >= 0 {
			data = traj.Distances(i, anchor)
		} else {
			data = make([]float64, len(traj.Times))
			for k, p := range traj.Positions[i] {
				data[k] = p.Norm()
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s distance vs time", b.Name)),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	if _, err := st.Load(runID); err != nil {
		return err
	}

	in, err := os.Open(st.TrajectoryPath(runID))
	if err != nil {
		return err
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	_, err = io.Copy(out, in)
	return err
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	orbits := make([]export.Orbit, 0, len(traj.Positions))
	for i, pts := range traj.Positions {
		o := export.Orbit{Name: fmt.Sprintf("body-%d", i), Points: pts}
		if i < len(meta.Bodies) {
			o.Name = meta.Bodies[i].Name
			o.Color = meta.Bodies[i].Color
		}
		orbits = append(orbits, o)
	}

	svg := export.OrbitsToSVG(orbits, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to export")
	}

	path := outFile
	if path == "" {
		path = filepath.Clean(runID + ".svg")
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Config: cfg,
		From:   sweepFrom,
		To:     sweepTo,
		Steps:  sweepSteps,
		Frames: frames,
		FPS:    fps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "G\tDRIFT\tSTABLE\tMIN R\tMAX R")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.2e\t%.0f%%\t%.2f\t%.2f\n", r.G, r.EnergyDrift, r.Stability*100, r.OrbitMin, r.OrbitMax)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tTASKS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		defs, err := cfg.GetTasks()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", name, len(cfg.Bodies), cfg.G, len(defs))
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
