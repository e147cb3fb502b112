package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/automation"
	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/experiment"
	"github.com/san-kum/roversim/internal/optim"
	"github.com/san-kum/roversim/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	mcTrials        int
	mcSpeedSpread   float64
	mcHeadingSpread float64

	tuneKp  []float64
	tuneKi  []float64
	tuneKd  []float64
	tuneOut string
)

func automationCommands() []*cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch [batch.yaml]",
		Short: "run every scenario in a batch file and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&saveRun, "save", true, "store each run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario.yaml]",
		Short: "vary one rover parameter and report the final state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "cg_height", "rover parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.3, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [scenario.yaml]",
		Short: "perturb initial speed and heading over many trials",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addScenarioFlags(mcCmd)
	mcCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&mcSpeedSpread, "speed-spread", 0.5, "uniform spread of initial speed [m/s]")
	mcCmd.Flags().Float64Var(&mcHeadingSpread, "heading-spread", 30, "uniform spread of initial heading [deg]")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario.yaml]",
		Short: "grid search heading pid gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneKp, "kp-grid", []float64{0.5, 1, 2, 4}, "kp values")
	tuneCmd.Flags().Float64SliceVar(&tuneKi, "ki-grid", []float64{0}, "ki values")
	tuneCmd.Flags().Float64SliceVar(&tuneKd, "kd-grid", []float64{0, 0.1, 0.3}, "kd values")
	tuneCmd.Flags().StringVar(&tuneOut, "out", "", "write the scenario with the best gains here")

	return []*cobra.Command{batchCmd, sweepCmd, mcCmd, tuneCmd}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	results, err := automation.RunBatch(ctx, batch, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if saveRun {
		if err := st.Init(); err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		if r.Config == nil || r.Result == nil {
			logger.Error("batch item failed", "err", r.Err)
			continue
		}
		if !saveRun {
			continue
		}
		runID, err := st.Save(r.Config, r.Result)
		if err != nil {
			return err
		}
		logger.Info("stored", "scenario", r.Config.Name, "run", runID)
	}

	fmt.Printf("batch %s: %d runs, %d failed\n", batch.Name, len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d batch runs failed", failed, len(results))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	sweep := &automation.ParameterSweep{Base: base, Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL_U\tFINAL_PSI\tMIN_ROLLOVER\tERROR\n", sweepParam)
	for _, r := range results {
		errText := "-"
		if r.Err != nil {
			errText = r.Err.Error()
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%s\n", r.Value, r.FinalSpeed, r.FinalHeading, r.MinRollover, errText)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	mc := &automation.MonteCarloConfig{
		Base:          base,
		SpeedSpread:   mcSpeedSpread,
		HeadingSpread: mcHeadingSpread,
		NumTrials:     mcTrials,
		Seed:          base.Sim.Seed,
	}
	results, err := automation.RunMonteCarlo(ctx, mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("monte carlo on %s: %d trials, %d stable, %d unstable\n", base.Name, len(results), stable, unstable)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	best, score, err := optim.TuneHeadingPID(ctx, base, experiment.NewRegistry(), tuneKp, tuneKi, tuneKd)
	if err != nil {
		return err
	}

	fmt.Printf("best gains for %s: kp=%.4f ki=%.4f kd=%.4f\n", base.Name, best["Kp"], best["Ki"], best["Kd"])
	fmt.Printf("tracking_error: %.6f\n", score)
	if base.Controller != "pid" {
		logger.Warn("base scenario does not use the pid controller; gains were tuned on a pid copy", "controller", base.Controller)
	}

	if tuneOut == "" {
		return nil
	}
	tuned := base.Clone()
	tuned.Controller = "pid"
	tuned.ControllerParams.Kp = best["Kp"]
	tuned.ControllerParams.Ki = best["Ki"]
	tuned.ControllerParams.Kd = best["Kd"]
	if err := config.Save(tuneOut, tuned); err != nil {
		return err
	}
	logger.Info("tuned scenario written", "path", tuneOut)
	return nil
}
