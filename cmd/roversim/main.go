package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/experiment"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	// Scenario overrides. Only flags the user actually set are applied.
	preset     string
	runName    string
	dt         float64
	tf         float64
	seed       int64
	integrator string
	controller string
	throttle   float64
	steering   float64
	kp         float64
	ki         float64
	kd         float64
	headingDeg float64
	speed      float64
	initSpeed  float64
	strict     bool
	keepGoing  bool

	// Inspection
	outputIdx int
	svgPath   string
	saveRun   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "roversim",
		Short:         "hybrid rover simulation with sampled actuators and sensors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scenario and store its outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario.yaml]",
		Short: "drive the rover from the keyboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scenario.yaml]",
		Short: "measure steps per second across step sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "write the resolved scenario as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeScenario,
	}
	addScenarioFlags(scenarioCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the held sensor outputs of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&outputIdx, "output", -1, "plot only this output index (0-14)")

	trackCmd := &cobra.Command{
		Use:   "track [run_id]",
		Short: "draw the measured ground track",
		Args:  cobra.ExactArgs(1),
		RunE:  trackRun,
	}
	trackCmd.Flags().StringVar(&svgPath, "svg", "", "also write the track as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&outputIdx, "output", -1, "analyze only this output index (0-14)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print run outputs as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a run as one json document",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, benchCmd, scenarioCmd,
		listCmd, plotCmd, trackCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd)
	rootCmd.AddCommand(automationCommands()...)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.New(os.Stderr)
		}
		logger.Error(err)
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "roversim",
	})
	return nil
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "start from a built-in scenario")
	f.StringVar(&runName, "name", "", "scenario name")
	f.Float64Var(&dt, "dt", config.DefaultDt, "advance step [s]")
	f.Float64Var(&tf, "time", config.DefaultDuration, "final time [s]")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&controller, "controller", "constant", "controller")
	f.Float64Var(&throttle, "throttle", 1000, "throttle pulse [us]")
	f.Float64Var(&steering, "steering", 1500, "steering pulse [us]")
	f.Float64Var(&kp, "kp", config.DefaultKp, "heading pid kp")
	f.Float64Var(&ki, "ki", config.DefaultKi, "heading pid ki")
	f.Float64Var(&kd, "kd", config.DefaultKd, "heading pid kd")
	f.Float64Var(&headingDeg, "heading", config.DefaultHeadingDeg, "heading reference [deg]")
	f.Float64Var(&speed, "speed", 0, "speed reference for the feedback controller [m/s]")
	f.Float64Var(&initSpeed, "u0", 0, "initial forward speed [m/s]")
	f.BoolVar(&strict, "strict", false, "refuse steps that skip a sample boundary")
	f.BoolVar(&keepGoing, "keep-going", false, "record refused steps and keep running")
}

// resolveConfig layers a preset or a scenario file under the flags the user
// set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case preset != "" && len(args) > 0:
		return nil, fmt.Errorf("give a scenario file or --preset, not both")
	case preset != "":
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) > 0:
		loaded, err := config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("name") {
		cfg.Name = runName
	}
	if f.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if f.Changed("time") {
		cfg.Sim.Tf = tf
	}
	if f.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("controller") {
		cfg.Controller = controller
	}
	if f.Changed("throttle") {
		cfg.ControllerParams.Throttle = throttle
	}
	if f.Changed("steering") {
		cfg.ControllerParams.Steering = steering
	}
	if f.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if f.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if f.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if f.Changed("heading") {
		cfg.ControllerParams.HeadingDeg = headingDeg
	}
	if f.Changed("speed") {
		cfg.ControllerParams.Speed = speed
	}
	if f.Changed("u0") {
		cfg.Initial.U = initSpeed
	}
	if f.Changed("strict") {
		cfg.Sim.StrictSchedule = strict
	}
	if f.Changed("keep-going") {
		cfg.Sim.KeepGoing = keepGoing
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	registry := experiment.NewRegistry()
	return registry.Build(cfg, experiment.WithLogger(logger))
}
