package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/roversim/internal/control"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

const (
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
	DefaultKp         = 2.0
	DefaultKi         = 0.0
	DefaultKd         = 0.1
	DefaultHeadingDeg = 90.0
	DefaultCruise     = 1500.0
	DefaultRunName    = "run"
	DefaultOutDir     = ".roversim"
)

type Config struct {
	Name             string            `yaml:"name" json:"name"`
	Integrator       string            `yaml:"integrator" json:"integrator"`
	Controller       string            `yaml:"controller" json:"controller"`
	Sim              SimConfig         `yaml:"sim" json:"sim"`
	Rover            rover.Params      `yaml:"rover" json:"rover"`
	Initial          InitialConfig     `yaml:"initial" json:"initial"`
	ControllerParams ControllerConfig  `yaml:"controller_params" json:"controller_params"`
	Script           []control.Segment `yaml:"script,omitempty" json:"script,omitempty"`
	Output           OutputConfig      `yaml:"output" json:"output"`
}

// SimConfig is the run window. Sample grids are anchored at t = 0, so t0
// must be zero.
type SimConfig struct {
	T0             float64 `yaml:"t0" json:"t0"`
	Tf             float64 `yaml:"tf" json:"tf"`
	Dt             float64 `yaml:"dt" json:"dt"`
	Seed           int64   `yaml:"seed,omitempty" json:"seed,omitempty"`
	StrictSchedule bool    `yaml:"strict_schedule" json:"strict_schedule"`
	KeepGoing      bool    `yaml:"keep_going,omitempty" json:"keep_going,omitempty"`
}

// InitialConfig takes attitude in degrees, the way scenarios are written.
type InitialConfig struct {
	X          float64 `yaml:"x" json:"x"`
	Y          float64 `yaml:"y" json:"y"`
	Z          float64 `yaml:"z" json:"z"`
	U          float64 `yaml:"u" json:"u"`
	V          float64 `yaml:"v,omitempty" json:"v,omitempty"`
	W          float64 `yaml:"w,omitempty" json:"w,omitempty"`
	RollDeg    float64 `yaml:"roll_deg,omitempty" json:"roll_deg,omitempty"`
	PitchDeg   float64 `yaml:"pitch_deg,omitempty" json:"pitch_deg,omitempty"`
	HeadingDeg float64 `yaml:"heading_deg" json:"heading_deg"`
}

type ControllerConfig struct {
	Throttle   float64 `yaml:"throttle" json:"throttle"`
	Steering   float64 `yaml:"steering" json:"steering"`
	Kp         float64 `yaml:"kp" json:"kp"`
	Ki         float64 `yaml:"ki" json:"ki"`
	Kd         float64 `yaml:"kd" json:"kd"`
	HeadingDeg float64 `yaml:"heading_deg" json:"heading_deg"`
	Speed      float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	KSpeed     float64 `yaml:"k_speed,omitempty" json:"k_speed,omitempty"`
	KHeading   float64 `yaml:"k_heading,omitempty" json:"k_heading,omitempty"`
}

type OutputConfig struct {
	RunName string `yaml:"run_name" json:"run_name"`
	OutDir  string `yaml:"out_dir" json:"out_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Integrator: "rk4",
		Controller: "constant",
		Sim: SimConfig{
			Tf: DefaultDuration,
			Dt: DefaultDt,
		},
		Rover: rover.DefaultParams(),
		ControllerParams: ControllerConfig{
			Throttle:   rover.PWMMin,
			Steering:   rover.PWMNeutral,
			Kp:         DefaultKp,
			Ki:         DefaultKi,
			Kd:         DefaultKd,
			HeadingDeg: DefaultHeadingDeg,
		},
		Output: OutputConfig{
			RunName: DefaultRunName,
			OutDir:  DefaultOutDir,
		},
	}
}

// Load reads a scenario over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("scenario name is required")
	}
	if c.Sim.T0 != 0 {
		return fmt.Errorf("%w: sim.t0 must be 0, got %v", dynamo.ErrParameterBounds, c.Sim.T0)
	}
	if !(c.Sim.Dt > 0) || math.IsInf(c.Sim.Dt, 0) {
		return fmt.Errorf("%w: sim.dt must be positive, got %v", dynamo.ErrParameterBounds, c.Sim.Dt)
	}
	if !(c.Sim.Tf > c.Sim.T0) || math.IsInf(c.Sim.Tf, 0) {
		return fmt.Errorf("%w: sim.tf must exceed t0, got %v", dynamo.ErrParameterBounds, c.Sim.Tf)
	}
	if err := c.Rover.Validate(); err != nil {
		return fmt.Errorf("rover: %w", err)
	}
	if c.Controller == "script" && len(c.Script) == 0 {
		return errors.New("controller script needs at least one script segment")
	}
	return nil
}

// Duration is the simulated span tf - t0.
func (c *Config) Duration() float64 { return c.Sim.Tf - c.Sim.T0 }

// RunConfig is the loop configuration handed to the simulator.
func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:          c.Sim.Dt,
		Duration:    c.Duration(),
		Seed:        c.Sim.Seed,
		StopOnError: !c.Sim.KeepGoing,
	}
}

// InitialState converts the scenario's initial block to a rover state.
func (c *Config) InitialState() rover.State {
	return rover.State{
		X:     c.Initial.X,
		Y:     c.Initial.Y,
		Z:     c.Initial.Z,
		U:     c.Initial.U,
		V:     c.Initial.V,
		W:     c.Initial.W,
		Phi:   deg2rad(c.Initial.RollDeg),
		Theta: deg2rad(c.Initial.PitchDeg),
		Psi:   deg2rad(c.Initial.HeadingDeg),
	}
}

// HeadingRef is the controller heading reference in radians.
func (c *Config) HeadingRef() float64 {
	return deg2rad(c.ControllerParams.HeadingDeg)
}

// Key is a content hash of the resolved scenario: the first 16 hex digits
// of the SHA-256 of its YAML encoding. Equal scenarios share a key.
func (c *Config) Key() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16], nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Script != nil {
		out.Script = make([]control.Segment, len(c.Script))
		copy(out.Script, c.Script)
	}
	return &out
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
