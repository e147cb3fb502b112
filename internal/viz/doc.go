// Package viz drives a rover unit live in the terminal with Bubble Tea.
//
// The operator sets the raw PWM pulses from the keyboard; the view shows the
// held command, the sensor hold and a braille [Canvas] of the ground track.
//
// # Key Bindings
//
//	Arrows - Throttle and steering pulses, 50us per press
//	Space  - Pause/Resume simulation
//	R      - Rebuild the scenario from its initial state
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
