// Package control provides the PWM sources that drive a rover unit.
//
// Controllers implement the [dynamo.Controller] interface. They read the
// 15-element measurement vector published by the unit and return the
// pulse pair {pwm_throttle, pwm_steering} in microseconds:
//
//   - [Constant]: fixed pulses ([NewNeutral] gives throttle off, wheels straight)
//   - [Script]: piecewise-constant pulses from a timed list
//   - [HeadingPID]: holds a heading reference from psi_meas
//   - [Feedback]: linear state feedback around trim pulses
//   - [Manual]: pulses set from outside, used by the live view
//
// # Usage
//
//	pid := control.NewHeadingPID(2.0, 0.0, 0.1, math.Pi/2, 1500)
//	u := pid.Compute(unit.Outputs().Vector(), unit.Time())
//	unit.SetInputs(u[0], u[1])
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
