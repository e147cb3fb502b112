package rover

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/integrators"
	"github.com/san-kum/roversim/internal/zoh"
)

// Option configures a Unit at construction.
type Option func(*Unit)

// WithIntegrator selects the scheme used between sample boundaries.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(u *Unit) {
		if integ != nil {
			u.integ = integ
		}
	}
}

// WithStrictSchedule makes Advance refuse a step that crosses more than one
// boundary of either schedule instead of replaying every boundary.
func WithStrictSchedule() Option {
	return func(u *Unit) { u.strict = true }
}

func WithLogger(l *log.Logger) Option {
	return func(u *Unit) {
		if l != nil {
			u.log = l
		}
	}
}

// core is everything Advance mutates. A failed step restores a copy of it.
type core struct {
	truth State
	clock zoh.Clock
	t     float64
	steps int

	act zoh.Schedule
	sen zoh.Schedule

	cmd  zoh.Hold[Command]
	meas zoh.Hold[Measurement]

	pwmThr, pwmStr float64
}

// Unit is the steppable hybrid rover: continuous dynamics between samples,
// an actuator hold refreshed every TsAct and a sensor hold refreshed every
// TsSen. Both grids start at t = 0.
type Unit struct {
	params Params
	model  *Model
	integ  dynamo.Integrator
	strict bool
	log    *log.Logger

	core
}

// NewUnit builds a unit from fixed parameters and an explicit initial state.
// The sensor hold is latched from initial at t = 0; the actuator hold is
// latched at the start of the first Advance from whatever SetInputs supplied.
func NewUnit(p Params, initial *State, opts ...Option) (*Unit, error) {
	if initial == nil {
		return nil, dynamo.ErrUninitialized
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !initial.IsValid() {
		return nil, fmt.Errorf("initial state: %w", dynamo.ErrInvalidState)
	}
	if err := CheckAttitude(initial.Theta, p.SingularityMargin); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	act, err := zoh.NewSchedule(p.TsAct)
	if err != nil {
		return nil, err
	}
	sen, err := zoh.NewSchedule(p.TsSen)
	if err != nil {
		return nil, err
	}

	u := &Unit{
		params: p,
		model:  NewModel(p),
		integ:  integrators.NewRK4(),
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(u)
	}

	u.act = act
	u.sen = sen
	u.truth = u.model.Evaluate(*initial, Command{})
	u.pwmThr, u.pwmStr = PWMMin, PWMNeutral

	u.meas.Latch(Measure(u.truth), u.sen.Consume())

	u.log.Debug("unit ready", "ts_act", p.TsAct, "ts_sen", p.TsSen, "strict", u.strict)
	return u, nil
}

// SetInputs stores the raw PWM pulses for the upcoming step. They take
// effect only at the next actuator boundary.
func (u *Unit) SetInputs(pwmThrottle, pwmSteering float64) {
	u.pwmThr = pwmThrottle
	u.pwmStr = pwmSteering
}

// Advance moves the unit from t to t+dt. Actuator boundaries in [t, t+dt)
// latch the current inputs; sensor boundaries in (t, t+dt] latch the state
// at that instant. Integration is split at every boundary. On error the
// unit is left exactly as it was before the call.
func (u *Unit) Advance(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt=%v", dynamo.ErrNonPositiveStep, dt)
	}

	t0 := u.t
	clock := u.clock.Add(dt)
	tEnd := clock.Now()

	nAct := u.act.Count(tEnd, false)
	nSen := u.sen.Count(tEnd, true)
	if u.strict && (nAct > 1 || nSen > 1) {
		return &dynamo.SimulationError{
			Step:    u.steps,
			Time:    t0,
			State:   u.truth.Vector(),
			Wrapped: fmt.Errorf("%w: dt=%v crosses %d actuator and %d sensor boundaries", dynamo.ErrScheduleSkip, dt, nAct, nSen),
		}
	}
	if nAct > 1 || nSen > 1 {
		u.log.Debug("catching up sample boundaries", "t", t0, "dt", dt, "act", nAct, "sen", nSen)
	}

	saved := u.core
	if err := u.advance(tEnd); err != nil {
		u.core = saved
		return err
	}

	u.clock = clock
	u.t = tEnd
	u.steps++
	return nil
}

func (u *Unit) advance(tEnd float64) error {
	t := u.t

	for {
		for u.act.Due(t) && u.act.Before(tEnd) {
			tb := u.act.Consume()
			u.cmd.Latch(DecodePWM(u.pwmThr, u.pwmStr), tb)
		}

		next := tEnd
		if u.act.Before(next) {
			next = u.act.Next()
		}
		if u.sen.Before(next) {
			next = u.sen.Next()
		}

		if next > t {
			if err := u.integrate(t, next-t); err != nil {
				return err
			}
			t = next
		}

		for u.sen.Due(t) {
			tb := u.sen.Consume()
			u.meas.Latch(Measure(u.truth), tb)
		}

		if next == tEnd {
			return nil
		}
	}
}

func (u *Unit) integrate(t, h float64) error {
	if err := CheckAttitude(u.truth.Theta, u.params.SingularityMargin); err != nil {
		return u.stepError(t, err)
	}

	cmd := u.cmd.Value()
	before := shortfalls(u.integ)
	x := u.integ.Step(u.model, u.truth.Vector(), cmd.Control(), t, h)
	if shortfalls(u.integ) > before {
		u.log.Warn("integrator fell short of tolerance", "t", t, "h", h)
	}
	if !x.IsValid() {
		return u.stepError(t+h, dynamo.ErrInvalidState)
	}

	next := u.model.Evaluate(u.truth.WithVector(x), cmd)
	if err := CheckAttitude(next.Theta, u.params.SingularityMargin); err != nil {
		return u.stepError(t+h, err)
	}
	if !next.IsValid() {
		return u.stepError(t+h, dynamo.ErrInvalidState)
	}

	u.truth = next
	return nil
}

// shortfalls reads the shortfall counter of integrators that keep one.
func shortfalls(integ dynamo.Integrator) int {
	if s, ok := integ.(interface{ Shortfalls() int }); ok {
		return s.Shortfalls()
	}
	return 0
}

func (u *Unit) stepError(t float64, err error) error {
	u.log.Warn("step refused", "t", t, "err", err)
	return &dynamo.SimulationError{
		Step:    u.steps,
		Time:    t,
		State:   u.truth.Vector(),
		Wrapped: err,
	}
}

// Outputs returns the held sensor snapshot.
func (u *Unit) Outputs() Measurement { return u.meas.Value() }

// Held returns the actuator command currently applied to the dynamics.
func (u *Unit) Held() Command { return u.cmd.Value() }

// Inputs returns the raw PWM pulses last passed to SetInputs.
func (u *Unit) Inputs() (float64, float64) { return u.pwmThr, u.pwmStr }

// Truth returns the live continuous state. It is for diagnostics and
// recording; consumers of the unit read Outputs.
func (u *Unit) Truth() State { return u.truth }

func (u *Unit) Time() float64 { return u.t }

func (u *Unit) Steps() int { return u.steps }

func (u *Unit) Params() Params { return u.params }

func (u *Unit) Model() *Model { return u.model }

// LatchTimes reports when each hold was last refreshed. The actuator time is
// NaN until the first Advance.
func (u *Unit) LatchTimes() (act, sen float64) {
	act = math.NaN()
	if u.cmd.Valid() {
		act = u.cmd.At()
	}
	return act, u.meas.At()
}

// Counts reports how many times each hold has been latched.
func (u *Unit) Counts() (act, sen int) {
	return u.cmd.Latches(), u.meas.Latches()
}
