package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
	"github.com/san-kum/roversim/internal/sim"
)

// Experiment is a scenario wired to a unit, a controller and metrics.
type Experiment struct {
	cfg        *config.Config
	unit       *rover.Unit
	controller dynamo.Controller
	simulator  *sim.Simulator
}

type BuildOption func(*buildOptions)

type buildOptions struct {
	log        *log.Logger
	controller dynamo.Controller
}

func WithLogger(l *log.Logger) BuildOption {
	return func(o *buildOptions) { o.log = l }
}

// WithController overrides the controller named in the scenario.
func WithController(c dynamo.Controller) BuildOption {
	return func(o *buildOptions) { o.controller = c }
}

// Build validates cfg and assembles a ready-to-run experiment.
func (r *Registry) Build(cfg *config.Config, opts ...BuildOption) (*Experiment, error) {
	bo := buildOptions{log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&bo)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}

	unitOpts, err := r.unitOptions(cfg)
	if err != nil {
		return nil, err
	}
	unitOpts = append(unitOpts, rover.WithLogger(bo.log.WithPrefix("unit")))

	initial := cfg.InitialState()
	unit, err := rover.NewUnit(cfg.Rover, &initial, unitOpts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}

	ctrl := bo.controller
	if ctrl == nil {
		if ctrl, err = r.GetController(cfg); err != nil {
			return nil, err
		}
	}

	s := sim.New(unit, ctrl)
	s.SetLogger(bo.log.WithPrefix("sim"))
	for _, m := range r.DefaultMetrics(cfg) {
		s.AddMetric(m)
	}

	return &Experiment{
		cfg:        cfg,
		unit:       unit,
		controller: ctrl,
		simulator:  s,
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Unit() *rover.Unit { return e.unit }

func (e *Experiment) Controller() dynamo.Controller { return e.controller }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
