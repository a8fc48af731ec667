package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/latticesim/internal/config"
	"github.com/san-kum/latticesim/internal/experiment"
	"github.com/san-kum/latticesim/internal/integrators"
	"github.com/san-kum/latticesim/internal/tui"
	"github.com/san-kum/latticesim/internal/vector"
)

var (
	logLevel        string
	configFile      string
	preset          string
	size            int
	stiffness       float64
	originStiffness float64
	dt              float64
	steps           int
	integrator      string
	workers         int
	precision       string
	sampleEvery     int
	progress        string
	plot            bool
	force           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "latticesim",
		Short:         "2-d spring lattice simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a lattice simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	integratorsCmd := &cobra.Command{
		Use:   "integrators",
		Short: "list available integrators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range integrators.Names() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "", "write this preset instead of the defaults")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, newBenchCmd(), presetsCmd, integratorsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	cmd.Flags().IntVar(&size, "size", config.DefaultSize, "lattice side length")
	cmd.Flags().Float64Var(&stiffness, "stiffness", config.DefaultStiffness, "neighbour coupling constant")
	cmd.Flags().Float64Var(&originStiffness, "origin-stiffness", config.DefaultOriginStiffness, "origin spring constant")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&integrator, "integrator", integrators.None, "integrator (none for acceleration only)")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines for the force pass (0 or 1 runs serially)")
	cmd.Flags().StringVar(&precision, "precision", config.DefaultPrecision, "element type (float32, float64)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "metric sampling period in steps")
	cmd.Flags().StringVar(&progress, "progress", "auto", "progress reporting (auto, tui, log, none)")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the sampled energy history")
}

func newLogger() (log.Logger, error) {
	var allow level.Option
	switch logLevel {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level: %s", logLevel)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, allow), nil
}

// resolveConfig layers preset, config file and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := cfg.Merge(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("stiffness") {
		cfg.Stiffness = stiffness
	}
	if flags.Changed("origin-stiffness") {
		cfg.OriginStiffness = originStiffness
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := resolveProgress(progress, isTerminal())
	if err != nil {
		return err
	}
	if mode != progress && progress == "tui" {
		level.Warn(logger).Log("msg", "no terminal attached, logging progress instead")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level.Info(logger).Log(
		"msg", "starting run",
		"size", cfg.Size,
		"precision", cfg.Precision,
		"integrator", cfg.Integrator,
		"steps", cfg.Steps,
		"dt", cfg.Dt,
		"workers", cfg.Workers,
	)

	var result *experiment.Result
	switch cfg.Precision {
	case "float64":
		result, err = runLattice[float64](ctx, cancel, cfg, mode, logger)
	default:
		result, err = runLattice[float32](ctx, cancel, cfg, mode, logger)
	}

	if result != nil {
		printSummary(cfg, result)
		if plot {
			plotEnergy(result.Energy)
		}
	}

	if errors.Is(err, context.Canceled) && result != nil {
		level.Warn(logger).Log("msg", "run canceled", "steps", result.Steps)
		return nil
	}
	if err != nil {
		level.Error(logger).Log("msg", "run failed", "err", err)
		return err
	}

	level.Info(logger).Log("msg", "run complete", "elapsed", result.Elapsed, "steps_per_sec", result.StepsPerSecond())
	return nil
}

func runLattice[T vector.Float](ctx context.Context, cancel context.CancelFunc, cfg *config.Config, mode string, logger log.Logger) (*experiment.Result, error) {
	s, err := experiment.Setup[T](cfg)
	if err != nil {
		return nil, err
	}

	runner := experiment.NewRunnerFromConfig(s, cfg)
	for _, m := range experiment.DefaultMetrics() {
		runner.AddMetric(m)
	}

	switch mode {
	case "tui":
		title := fmt.Sprintf("%dx%d lattice  %s  %s", cfg.Size, cfg.Size, cfg.Precision, cfg.Integrator)
		p := tui.NewProgress(title, cfg.Steps, cancel)
		runner.AddObserver(p.Observer(100 * time.Millisecond))

		var result *experiment.Result
		var runErr error
		done := make(chan struct{})
		go func() {
			defer close(done)
			result, runErr = runner.Run(ctx, cfg.Steps, T(cfg.Dt))
			p.Done(runErr)
		}()

		if err := p.Run(); err != nil {
			cancel()
			<-done
			return result, err
		}
		<-done
		return result, runErr
	case "log":
		runner.AddObserver(tui.NewLogObserver(logger, 2*time.Second))
	case "none":
	default:
		return nil, fmt.Errorf("unknown progress mode: %s", mode)
	}

	return runner.Run(ctx, cfg.Steps, T(cfg.Dt))
}

func isTerminal() bool {
	tty := func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return tty(os.Stdin) && tty(os.Stdout)
}

// resolveProgress picks the reporter for mode. The progress bar needs a
// terminal; without one auto and tui both fall back to log lines.
func resolveProgress(mode string, interactive bool) (string, error) {
	switch mode {
	case "auto", "tui":
		if interactive {
			return "tui", nil
		}
		return "log", nil
	case "log", "none":
		return mode, nil
	}
	return "", fmt.Errorf("unknown progress mode: %s", mode)
}

func printSummary(cfg *config.Config, result *experiment.Result) {
	fmt.Printf("\n%dx%d lattice, %s, integrator %s\n", cfg.Size, cfg.Size, cfg.Precision, cfg.Integrator)
	fmt.Printf("steps: %d/%d in %v (%.0f steps/sec)\n",
		result.Steps, cfg.Steps, result.Elapsed.Round(time.Millisecond), result.StepsPerSecond())
	fmt.Printf("final energy: kinetic %.6g  origin %.6g  coupling %.6g  total %.6g\n",
		result.Final.Kinetic, result.Final.Origin, result.Final.Coupling, result.Final.Total())
	if f := result.ModeFrequency(cfg.SampleEvery, cfg.Dt); f > 0 {
		fmt.Printf("dominant mode frequency: %.6g\n", f)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, result.Metrics[name])
	}
	w.Flush()
}

func plotEnergy(energy []float64) {
	if len(energy) < 2 {
		fmt.Println("\nnot enough samples to plot")
		return
	}
	graph := asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy per sample"),
	)
	fmt.Println()
	fmt.Println(graph)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tPRECISION\tINTEGRATOR\tSTEPS\tDT\tPERTURBATION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%g\t%s\n",
			name, p.Size, p.Precision, p.Integrator, p.Steps, p.Dt, p.Perturbation.Kind)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
