package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/lab"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/viz"
)

var (
	configFile string
	preset     string
	dt         float64
	duration   float64
	theta      float64
	length     float64
	mass       float64
	gravity    float64
	friction   float64
	integrator string

	// analyze
	sweepSteps int
	sweepMax   float64
	showPhase  bool

	// config init
	force bool
)

// smallAngleThreshold is where sin θ ≈ θ is off by about 0.7%.
const smallAngleThreshold = 0.2

func main() {
	rootCmd := &cobra.Command{
		Use:   "pendulab",
		Short: "pendulum lab",
		Long:  "Interactive pendulum lab in the terminal, plus headless runs and period analysis.",
		RunE:  runInteractive,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&preset, "preset", "", "use preset configuration")
	flags.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	flags.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	flags.Float64Var(&theta, "theta", config.DefaultTheta, "initial angle of pendulum 1")
	flags.Float64Var(&length, "length", 0.7, "length of pendulum 1 (m)")
	flags.Float64Var(&mass, "mass", 1, "mass of pendulum 1 (kg)")
	flags.Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration")
	flags.Float64Var(&friction, "friction", 0, "friction coefficient")
	flags.StringVar(&integrator, "integrator", "rk4", "integrator")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and print periods and energies",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrator energy drift",
		RunE:  compareIntegrators,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "compare FFT, crossing and closed-form periods",
		Args:  cobra.NoArgs,
		RunE:  analyzePeriod,
	}
	analyzeCmd.Flags().IntVar(&sweepSteps, "sweep", 0, "amplitude sweep points (0 disables)")
	analyzeCmd.Flags().Float64Var(&sweepMax, "max-angle", 2.5, "largest sweep amplitude")
	analyzeCmd.Flags().BoolVar(&showPhase, "phase", false, "print the phase portrait")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "name\tpendulums\tgravity\tfriction\tangle\tduration")
			for _, name := range config.ListPresets() {
				cfg, err := config.GetPreset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3f\t%.2f\t%.0fs\n",
					name, cfg.NumberOfPendulums, cfg.Gravity, cfg.Friction, cfg.Pendulums[0].Angle, cfg.Duration)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, compareCmd, analyzeCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the defaults, a preset, a config file and finally any
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
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

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if f.Changed("friction") {
		cfg.Friction = friction
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if len(cfg.Pendulums) > 0 {
		if f.Changed("theta") {
			cfg.Pendulums[0].Angle = theta
		}
		if f.Changed("length") {
			cfg.Pendulums[0].Length = length
		}
		if f.Changed("mass") {
			cfg.Pendulums[0].Mass = mass
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := cfg.NewLab()
	if err != nil {
		return err
	}
	return viz.Run(l)
}

// steps is the number of dt steps covering the configured duration.
func steps(cfg *config.Config) int {
	return int(math.Round(cfg.Duration / cfg.Dt))
}

type pendulumRun struct {
	drift     *metrics.EnergyDrift
	energy    *metrics.Energy
	thermal   *metrics.ThermalMonotonic
	small     *metrics.SmallAngle
	crossings *metrics.CrossingCounter
	angles    []float64
	detach    func()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := cfg.NewLab()
	if err != nil {
		return err
	}

	tracker := l.Tracker()
	var periods []float64
	unsub := tracker.OnPeriod(func(p float64) { periods = append(periods, p) })
	defer unsub()
	tracker.SetRepeating(true)
	tracker.Start()

	runs := make([]*pendulumRun, l.NumberOfPendulums())
	for i, p := range l.ActivePendulums() {
		r := &pendulumRun{
			drift:     metrics.NewEnergyDrift(),
			energy:    metrics.NewEnergy(),
			thermal:   metrics.NewThermalMonotonic(),
			small:     metrics.NewSmallAngle(smallAngleThreshold),
			crossings: metrics.NewCrossingCounter(p),
		}
		r.detach = metrics.Attach(p, r.drift, r.energy, r.thermal, r.small)
		runs[i] = r
	}

	fmt.Printf("running %d pendulum(s) for %.1fs (dt=%.4f, %s, %s speed)...\n",
		l.NumberOfPendulums(), cfg.Duration, cfg.Dt, cfg.Integrator, l.TimeSpeed())
	start := time.Now()

	n := steps(cfg)
	for s := 0; s < n; s++ {
		l.Step(cfg.Dt)
		for i, p := range l.ActivePendulums() {
			runs[i].angles = append(runs[i].angles, p.Angle())
		}
	}
	fmt.Printf("completed in %v (simulated %.2fs)\n", time.Since(start), l.Time())

	for i, p := range l.ActivePendulums() {
		r := runs[i]
		r.detach()
		r.crossings.Close()

		crossing := analysis.Mean(analysis.CrossingPeriods(r.crossings.Times()))
		fmt.Printf("\npendulum %d (L=%.2f m, m=%.2f kg)\n", i+1, p.Length(), p.Mass())
		fmt.Printf("  crossings:        %d\n", int(r.crossings.Value()))
		fmt.Printf("  crossing period:  %.4f s\n", crossing)
		fmt.Printf("  exact period:     %.4f s\n", analysis.ExactPeriod(p.Length(), l.Environment().Gravity(), math.Abs(cfg.Pendulums[i].Angle)))
		fmt.Printf("  small-angle:      %.4f s\n", p.ApproximatePeriod())
		fmt.Println("  metrics:")
		for _, m := range []dynamo.Metric{r.energy, r.drift, r.thermal, r.small} {
			fmt.Printf("    %-20s %.6f\n", m.Name(), m.Value())
		}
		fmt.Printf("    %-20s %.6f\n", "thermal_energy", p.ThermalEnergy())
	}

	if len(periods) > 0 {
		fmt.Printf("\nperiod timer (pendulum %d): %d periods, mean %.4f s\n",
			tracker.Active()+1, len(periods), analysis.Mean(periods))
	}

	series := make([][]float64, len(runs))
	for i, r := range runs {
		series[i] = r.angles
	}
	if len(series[0]) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
			asciigraph.Caption("theta (rad) vs time"),
		))
	}
	return nil
}

type compareResult struct {
	name    string
	angle   float64
	drift   float64
	elapsed time.Duration
	err     error
}

// compareIntegrators runs pendulum 1 once per integrator, concurrently.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	opts, err := cfg.LabOptions()
	if err != nil {
		return err
	}
	n := steps(cfg)

	results := make([]compareResult, len(names))
	_ = dynamo.Parallel(len(names), func(i int) error {
		res := compareResult{name: names[i]}
		defer func() { results[i] = res }()

		integ, err := integrators.New(names[i])
		if err != nil {
			res.err = err
			return nil
		}
		po := opts.Pendulums[0]
		po.Integrator = integ
		p := physics.NewPendulum(lab.NewEnvironment(cfg.Gravity, cfg.Friction), po)
		drift := metrics.NewEnergyDrift()
		defer metrics.Attach(p, drift)()

		start := time.Now()
		for s := 0; s < n; s++ {
			p.Step(cfg.Dt)
		}
		res.elapsed = time.Since(start)
		res.angle = p.Angle()
		res.drift = drift.Value()
		return nil
	})

	fmt.Printf("comparing integrators (dt=%.4f, duration=%.1fs, theta=%.2f)\n\n", cfg.Dt, cfg.Duration, cfg.Pendulums[0].Angle)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "integrator\tfinal_theta\tenergy_drift\ttime_ms")
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", r.name, r.err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%.2f\n", r.name, r.angle, r.drift, float64(r.elapsed.Microseconds())/1000)
	}
	return w.Flush()
}

func analyzePeriod(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.LabOptions()
	if err != nil {
		return err
	}
	env := lab.NewEnvironment(cfg.Gravity, cfg.Friction)
	po := opts.Pendulums[0]
	p := physics.NewPendulum(env, po)

	crossings := metrics.NewCrossingCounter(p)
	defer crossings.Close()

	n := steps(cfg)
	samples := make([]float64, 0, n)
	for s := 0; s < n; s++ {
		p.Step(cfg.Dt)
		samples = append(samples, p.Angle())
	}

	fmt.Printf("pendulum 1: L=%.2f m, m=%.2f kg, theta0=%.3f rad, g=%.2f, k=%.3f\n\n",
		po.Length, po.Mass, po.Angle, cfg.Gravity, cfg.Friction)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "method\tperiod_s")
	if fftPeriod, err := analysis.DominantPeriod(samples, cfg.Dt); err != nil {
		fmt.Fprintf(w, "fft\t%v\n", err)
	} else {
		fmt.Fprintf(w, "fft\t%.4f\n", fftPeriod)
	}
	if periods := analysis.CrossingPeriods(crossings.Times()); len(periods) > 0 {
		fmt.Fprintf(w, "crossings\t%.4f\n", analysis.Mean(periods))
	} else {
		fmt.Fprintf(w, "crossings\t%v\n", dynamo.ErrNoOscillation)
	}
	fmt.Fprintf(w, "exact\t%.4f\n", analysis.ExactPeriod(po.Length, cfg.Gravity, math.Abs(po.Angle)))
	fmt.Fprintf(w, "small-angle\t%.4f\n", p.ApproximatePeriod())
	if err := w.Flush(); err != nil {
		return err
	}

	if sweepSteps > 0 {
		sweepOpts := po
		sweepOpts.Integrator = nil
		// the sweep times free swings
		sweepEnv := lab.NewEnvironment(cfg.Gravity, 0)
		points, err := analysis.AmplitudeSweep(sweepEnv, sweepOpts, 0.05, sweepMax, sweepSteps, cfg.Dt)
		if err != nil {
			return err
		}
		fmt.Printf("\namplitude sweep (%d points)\n", len(points))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "amplitude\tmeasured\texact\tsmall-angle\terror_%")
		measured := make([]float64, len(points))
		for i, pt := range points {
			measured[i] = pt.Period
			fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.4f\t%.3f\n",
				pt.Amplitude, pt.Period, pt.Exact, pt.Approximate, 100*(pt.Period-pt.Exact)/pt.Exact)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(measured) > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(measured,
				asciigraph.Height(8),
				asciigraph.Width(60),
				asciigraph.Caption("period vs amplitude"),
			))
		}
	}

	if showPhase {
		fresh := physics.NewPendulum(env, po)
		portrait := analysis.GeneratePhasePortrait(fresh, cfg.Dt, cfg.Duration)
		if portrait != nil {
			fmt.Println("\nphase portrait (theta vs omega)")
			fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))
		}
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "pendulab.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
