package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Sim.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration() <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParseScenario(t *testing.T) {
	data := []byte(`
name: sample
integrator: rk45
controller: script
sim: {t0: 0, tf: 4, dt: 0.005, strict_schedule: true}
rover: {wheelbase: 0.3, ts_act: 0.04}
initial: {x: 1, u: 0.5, heading_deg: 180}
script:
  - {at: 0, throttle: 2000, steering: 1500}
  - {at: 1, throttle: 1500, steering: 1700}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Integrator != "rk45" || cfg.Sim.Tf != 4 || !cfg.Sim.StrictSchedule {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Rover.Wheelbase != 0.3 || cfg.Rover.TsAct != 0.04 {
		t.Errorf("rover overrides lost: %+v", cfg.Rover)
	}
	if cfg.Rover.VMax != rover.DefaultVMax || cfg.Rover.TsSen != rover.DefaultTsSen {
		t.Errorf("rover defaults lost: %+v", cfg.Rover)
	}
	if len(cfg.Script) != 2 || cfg.Script[1].Steering != 1700 {
		t.Errorf("script %+v", cfg.Script)
	}

	s := cfg.InitialState()
	if s.X != 1 || s.U != 0.5 || math.Abs(s.Psi-math.Pi) > 1e-15 {
		t.Errorf("initial state %+v", s)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "name: x\nmodel: pendulum\n"},
		{"zero dt", "name: x\nsim: {tf: 1, dt: 0}\n"},
		{"tf before t0", "name: x\nsim: {tf: 0, dt: 0.01}\n"},
		{"nonzero t0", "name: x\nsim: {t0: 1, tf: 2, dt: 0.01}\n"},
		{"bad rover", "name: x\nrover: {ts_sen: -1}\n"},
		{"empty script", "name: x\ncontroller: script\n"},
		{"empty name", "name: ''\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Parse([]byte("name: x\nrover: {v_max: 0}\n"))
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("got %v, want ErrParameterBounds", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	cfg := GetPreset("dual_rate")

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	k1, _ := cfg.Key()
	k2, _ := loaded.Key()
	if k1 != k2 {
		t.Errorf("key changed across save/load: %s vs %s", k1, k2)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want not-exist", err)
	}
}

func TestKey(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()

	ka, err := a.Key()
	if err != nil {
		t.Fatal(err)
	}
	kb, _ := b.Key()
	if len(ka) != 16 {
		t.Errorf("key length %d, want 16", len(ka))
	}
	if ka != kb {
		t.Error("equal configs should share a key")
	}

	b.Rover.TsAct = 0.05
	kb, _ = b.Key()
	if ka == kb {
		t.Error("different configs should differ in key")
	}
}

func TestRunConfig(t *testing.T) {
	cfg := DefaultConfig()
	rc := cfg.RunConfig()
	if rc.Dt != DefaultDt || rc.Duration != DefaultDuration || !rc.StopOnError {
		t.Errorf("run config %+v", rc)
	}
	cfg.Sim.KeepGoing = true
	if cfg.RunConfig().StopOnError {
		t.Error("keep_going should disable StopOnError")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dual_rate")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Rover.TsAct != 0.1 || cfg.Rover.TsSen != 0.05 {
		t.Errorf("dual_rate periods (%v, %v)", cfg.Rover.TsAct, cfg.Rover.TsSen)
	}

	cfg.Script[0].Throttle = 0
	if Presets["dual_rate"].Script[0].Throttle != 2000 {
		t.Error("GetPreset returned shared script storage")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	for _, want := range []string{"straight", "turn", "heading_hold", "idle", "dual_rate"} {
		if GetPreset(want) == nil {
			t.Errorf("missing preset %s", want)
		}
	}
	for i, name := range names {
		if i > 0 && names[i-1] > name {
			t.Errorf("presets not sorted: %v", names)
		}
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
