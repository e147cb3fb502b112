// Package dynamo provides core simulation primitives for the rover unit.
//
// The package defines the fundamental interfaces and types shared by the
// dynamics, the integrators and the orchestration loop:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Controller]: maps measurements to actuator commands
//   - [SimulationError]: step failure carrying time and state
//
// # Example
//
//	model := rover.NewModel(rover.DefaultParams())
//	integ := integrators.NewRK4()
//	next := integ.Step(model, x, dynamo.Control{thr, str}, t, dt)
//
// # Thread Safety
//
// Nothing here is safe for concurrent mutation. Independent runs may
// execute in parallel through [ParallelFor] as long as each owns its state.
package dynamo
