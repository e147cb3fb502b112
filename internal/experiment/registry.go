package experiment

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/control"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/integrators"
	"github.com/san-kum/roversim/internal/metrics"
	"github.com/san-kum/roversim/internal/rover"
)

type ControllerFactory func(cfg *config.Config) (dynamo.Controller, error)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]ControllerFactory),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.controllers["constant"] = func(cfg *config.Config) (dynamo.Controller, error) {
		p := cfg.ControllerParams
		return control.NewConstant(p.Throttle, p.Steering), nil
	}
	r.controllers["script"] = func(cfg *config.Config) (dynamo.Controller, error) {
		return control.NewScript(cfg.Script)
	}
	r.controllers["pid"] = func(cfg *config.Config) (dynamo.Controller, error) {
		p := cfg.ControllerParams
		return control.NewHeadingPID(p.Kp, p.Ki, p.Kd, cfg.HeadingRef(), p.Throttle), nil
	}
	r.controllers["feedback"] = func(cfg *config.Config) (dynamo.Controller, error) {
		p := cfg.ControllerParams
		return control.NewSpeedHeadingFeedback(p.Speed, cfg.HeadingRef(), p.KSpeed, p.KHeading), nil
	}

	return r
}

// RegisterController adds or replaces a controller factory.
func (r *Registry) RegisterController(name string, f ControllerFactory) {
	r.controllers[name] = f
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(cfg *config.Config) (dynamo.Controller, error) {
	fn, ok := r.controllers[cfg.Controller]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
	return fn(cfg)
}

func (r *Registry) ListIntegrators() []string {
	names := lo.Keys(r.integrators)
	slices.Sort(names)
	return names
}

func (r *Registry) ListControllers() []string {
	names := lo.Keys(r.controllers)
	slices.Sort(names)
	return names
}

// DefaultMetrics are attached to every built experiment. The heading
// tracking error is referenced to the scenario's heading target.
func (r *Registry) DefaultMetrics(cfg *config.Config) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewTrackingError(cfg.HeadingRef()),
		metrics.NewControlEffort(),
		metrics.NewStability(0.5),
		metrics.NewRolloverMargin(cfg.Rover),
		metrics.NewMaxSpeed(),
	}
}

// MetricNames lists metric names in attachment order.
func MetricNames(ms []dynamo.Metric) []string {
	return lo.Map(ms, func(m dynamo.Metric, _ int) string { return m.Name() })
}

// unitOptions translates the scenario into unit construction options.
func (r *Registry) unitOptions(cfg *config.Config) ([]rover.Option, error) {
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	opts := []rover.Option{rover.WithIntegrator(integ)}
	if cfg.Sim.StrictSchedule {
		opts = append(opts, rover.WithStrictSchedule())
	}
	return opts, nil
}
