package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/experiment"
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/storage"
	"github.com/san-kum/roversim/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scenario", "name", cfg.Name, "controller", cfg.Controller, "integrator", cfg.Integrator, "tf", cfg.Sim.Tf, "dt", cfg.Sim.Dt)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if final, ok := result.Final(); ok {
		fmt.Printf("final: t=%.3f x=%.3f y=%.3f u=%.3f psi=%.3f\n",
			final.T, final.Outputs.X, final.Outputs.Y, final.Outputs.U, final.Outputs.Psi)
	}
	printMetrics(result.Metrics)

	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
	}
	if result.Failed() {
		logger.Warn("steps were refused", "count", len(result.Errors), "first", result.Errors[0])
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build := func(ctrl dynamo.Controller) (*sim.Simulator, error) {
		exp, err := registry.Build(cfg, experiment.WithController(ctrl), experiment.WithLogger(log.New(io.Discard)))
		if err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}

	m, err := viz.NewModel(build, cfg.Sim.Dt, cfg.Name)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s (dt=%.4f, tf=%.1fs)\n\n", cfg.Name, cfg.Sim.Dt, cfg.Sim.Tf)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "final_x", "final_y", "final_u", "vs_first", "time_ms")
	fmt.Println(strings.Repeat("-", 80))

	var reference dynamo.State

	for _, name := range args {
		c := cfg.Clone()
		c.Integrator = name

		exp, err := buildExperiment(c)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final, _ := result.Final()
		x := final.Truth.Vector()
		if reference == nil {
			reference = x
		}
		fmt.Printf("%-12s  %12.6f  %12.6f  %12.6f  %12.2e  %12.2f\n", name,
			final.Truth.X, final.Truth.Y, final.Truth.U, x.Distance(reference), float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.005, 0.01}

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			c := cfg.Clone()
			c.Sim.Tf = dur
			c.Sim.Dt = step
			c.Sim.KeepGoing = true

			exp, err := buildExperiment(c)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n", dur, step, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func writeScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("scenario written", "path", args[0], "name", cfg.Name)
	return nil
}
