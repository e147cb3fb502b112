package config

import (
	"sort"

	"github.com/san-kum/roversim/internal/control"
)

func preset(name string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Output.RunName = name
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	"straight": preset("straight", func(c *Config) {
		c.ControllerParams.Throttle = 2000
		c.ControllerParams.Steering = 1500
	}),
	"turn": preset("turn", func(c *Config) {
		c.Initial.U = 2
		c.ControllerParams.Throttle = 1400
		c.ControllerParams.Steering = 1750
	}),
	"heading_hold": preset("heading_hold", func(c *Config) {
		c.Controller = "pid"
		c.Sim.Tf = 15
		c.ControllerParams.Throttle = DefaultCruise
	}),
	"idle": preset("idle", func(c *Config) {
		c.Sim.Tf = 5
	}),
	"dual_rate": preset("dual_rate", func(c *Config) {
		c.Controller = "script"
		c.Sim.Tf = 8
		c.Rover.TsAct = 0.1
		c.Rover.TsSen = 0.05
		c.Script = []control.Segment{
			{At: 0, Throttle: 2000, Steering: 1500},
			{At: 2, Throttle: 1600, Steering: 1800},
			{At: 5, Throttle: 1300, Steering: 1200},
		}
	}),
	"cruise": preset("cruise", func(c *Config) {
		c.Controller = "feedback"
		c.Sim.Tf = 12
		c.ControllerParams.Speed = 3
		c.ControllerParams.KSpeed = 200
		c.ControllerParams.KHeading = 400
		c.ControllerParams.HeadingDeg = 45
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
