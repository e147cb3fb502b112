package rover

// Nominal PWM pulse widths in microseconds.
const (
	PWMMin     = 1000.0
	PWMNeutral = 1500.0
	PWMMax     = 2000.0

	throttleSpan     = 1000.0
	steeringHalfSpan = 500.0
)

// DecodePWM converts raw pulse widths into normalized commands. There is no
// clamping: out-of-range pulses give out-of-range commands.
func DecodePWM(pwmThrottle, pwmSteering float64) Command {
	return Command{
		Throttle: (pwmThrottle - PWMMin) / throttleSpan,
		Steering: (pwmSteering - PWMNeutral) / steeringHalfSpan,
	}
}

// EncodePWM is the inverse of DecodePWM.
func EncodePWM(cmd Command) (float64, float64) {
	return PWMMin + cmd.Throttle*throttleSpan, PWMNeutral + cmd.Steering*steeringHalfSpan
}
