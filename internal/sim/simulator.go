package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// Simulator closes the loop between a controller and a rover unit. Each
// step reads the held outputs, asks the controller for pulses, hands them
// to the unit and advances it by dt.
type Simulator struct {
	unit       *rover.Unit
	controller dynamo.Controller
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        *log.Logger
}

func New(unit *rover.Unit, controller dynamo.Controller) *Simulator {
	return &Simulator{
		unit:       unit,
		controller: controller,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        log.New(io.Discard),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *log.Logger) {
	if l != nil {
		s.log = l
	}
}

func (s *Simulator) Unit() *rover.Unit { return s.unit }

func (s *Simulator) Metrics() []dynamo.Metric { return s.metrics }

// Step runs one controller/unit exchange. On error the unit is unchanged,
// nothing is observed and the returned sample describes the instant before
// the step.
func (s *Simulator) Step(dt float64) (Sample, error) {
	t := s.unit.Time()
	y := s.unit.Outputs().Vector()
	u := s.controller.Compute(y, t)
	if len(u) != 2 {
		return s.sample(), fmt.Errorf("%w: controller returned %d values, want 2", dynamo.ErrDimensionMismatch, len(u))
	}

	s.unit.SetInputs(u[0], u[1])
	if err := s.unit.Advance(dt); err != nil {
		return s.sample(), err
	}

	// Only accepted steps are observed; a refused one is retried from the
	// same (y, u, t).
	for _, m := range s.metrics {
		m.Observe(y, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(y, u, t)
	}
	return s.sample(), nil
}

func (s *Simulator) sample() Sample {
	thr, str := s.unit.Inputs()
	return Sample{
		T:       s.unit.Time(),
		Truth:   s.unit.Truth(),
		Outputs: s.unit.Outputs(),
		PWM:     [2]float64{thr, str},
		Held:    s.unit.Held(),
	}
}

// Run steps the loop for cfg.Duration. The first sample is the initial
// condition. A refused step is recorded in Result.Errors; with
// StopOnError the run ends there and the error is also returned.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, s.sample())
	s.log.Debug("run start", "dt", cfg.Dt, "duration", cfg.Duration, "steps", steps)

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		sample, err := s.Step(cfg.Dt)
		if err != nil {
			result.Errors = append(result.Errors, err)
			if cfg.StopOnError {
				runErr = err
				break
			}
			continue
		}

		result.StepsTaken++
		result.Samples = append(result.Samples, sample)
	}

	s.collect(result)
	s.log.Debug("run done", "steps", result.StepsTaken, "errors", len(result.Errors))
	return result, runErr
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	return nil
}

// RunWithCallback steps until the duration elapses or callback returns
// false. It records nothing.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg dynamo.Config, callback func(Sample) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sample, err := s.Step(cfg.Dt)
		if err != nil {
			return err
		}
		if !callback(sample) {
			return nil
		}
	}
	return nil
}
