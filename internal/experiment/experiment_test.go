package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/control"
	"github.com/san-kum/roversim/internal/rover"
)

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()

	integs := r.ListIntegrators()
	if len(integs) != 3 || integs[0] != "euler" || integs[2] != "rk45" {
		t.Errorf("integrators %v", integs)
	}

	ctrls := r.ListControllers()
	want := []string{"constant", "feedback", "pid", "script"}
	if len(ctrls) != len(want) {
		t.Fatalf("controllers %v", ctrls)
	}
	for i := range want {
		if ctrls[i] != want[i] {
			t.Errorf("controllers %v, want %v", ctrls, want)
		}
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetIntegrator("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	cfg := config.DefaultConfig()
	cfg.Controller = "lqr"
	if _, err := r.Build(cfg); err == nil {
		t.Error("expected error for unknown controller")
	}

	cfg = config.DefaultConfig()
	cfg.Integrator = "verlet"
	if _, err := r.Build(cfg); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestBuildAllPresets(t *testing.T) {
	r := NewRegistry()
	for _, name := range config.ListPresets() {
		exp, err := r.Build(config.GetPreset(name))
		if err != nil {
			t.Errorf("preset %s: %v", name, err)
			continue
		}
		if len(exp.GetSimulator().Metrics()) != 5 {
			t.Errorf("preset %s: %d metrics", name, len(exp.GetSimulator().Metrics()))
		}
	}
}

func TestRunStraightPreset(t *testing.T) {
	cfg := config.GetPreset("straight")
	cfg.Sim.Tf = 2

	exp, err := NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.StepsTaken != 200 {
		t.Errorf("steps %d, want 200", result.StepsTaken)
	}
	want := cfg.Rover.VMax * (1 - math.Exp(-cfg.Rover.Drag()*2))
	if math.Abs(result.Metrics["max_speed"]-want) > 0.05 {
		t.Errorf("max_speed %v, want about %v", result.Metrics["max_speed"], want)
	}
	if result.Metrics["rollover_margin"] != 1 {
		t.Errorf("straight run should not load the wheels laterally: %v", result.Metrics["rollover_margin"])
	}
}

func TestHeadingHoldConverges(t *testing.T) {
	cfg := config.GetPreset("heading_hold")

	exp, err := NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	final, _ := result.Final()
	if e := math.Abs(rover.WrapPi(final.Outputs.Psi - cfg.HeadingRef())); e > 0.05 {
		t.Errorf("final heading error %v rad", e)
	}
}

func TestWithControllerOverride(t *testing.T) {
	m := control.NewManual()
	exp, err := NewRegistry().Build(config.DefaultConfig(), WithController(m))
	if err != nil {
		t.Fatal(err)
	}
	if exp.Controller() != m {
		t.Error("override not applied")
	}
}

func TestMetricNames(t *testing.T) {
	names := MetricNames(NewRegistry().DefaultMetrics(config.DefaultConfig()))
	want := []string{"tracking_error", "control_effort", "stability", "rollover_margin", "max_speed"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names %v, want %v", names, want)
			break
		}
	}
}
