package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/config"
)

func scenarioCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addScenarioFlags(cmd)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolvePresetWithOverrides(t *testing.T) {
	cmd := scenarioCmd(t, "--preset", "turn", "--dt", "0.02", "--strict")
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := config.GetPreset("turn")
	if cfg.Name != want.Name {
		t.Errorf("name = %s, want %s", cfg.Name, want.Name)
	}
	if cfg.Sim.Dt != 0.02 || !cfg.Sim.StrictSchedule {
		t.Errorf("overrides not applied: %+v", cfg.Sim)
	}
	if cfg.ControllerParams.Steering != want.ControllerParams.Steering {
		t.Errorf("unset flag overrode the preset: steering %v", cfg.ControllerParams.Steering)
	}
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte("name: from_file\nsim:\n  tf: 3\n  dt: 0.01\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cmd := scenarioCmd(t, "--throttle", "1600")
	cfg, err := resolveConfig(cmd, []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "from_file" || cfg.Sim.Tf != 3 {
		t.Errorf("file not applied: %s tf=%v", cfg.Name, cfg.Sim.Tf)
	}
	if cfg.ControllerParams.Throttle != 1600 {
		t.Errorf("throttle = %v", cfg.ControllerParams.Throttle)
	}
}

func TestResolveRejects(t *testing.T) {
	if _, err := resolveConfig(scenarioCmd(t, "--preset", "nope"), nil); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := resolveConfig(scenarioCmd(t, "--preset", "turn"), []string{"x.yaml"}); err == nil {
		t.Error("expected error for preset and file together")
	}
	if _, err := resolveConfig(scenarioCmd(t, "--dt", "-1"), nil); err == nil {
		t.Error("expected validation error")
	}
}
