package zoh

// Clock accumulates step sizes with Kahan compensation so that a long run
// of equal steps stays on the k·dt grid instead of drifting by one rounding
// error per step.
type Clock struct {
	sum  float64
	comp float64
}

// Now is the accumulated time.
func (c Clock) Now() float64 { return c.sum }

// Add returns the clock advanced by dt. The receiver is unchanged, so a
// caller can look ahead and commit only on success.
func (c Clock) Add(dt float64) Clock {
	y := dt - c.comp
	s := c.sum + y
	c.comp = (s - c.sum) - y
	c.sum = s
	return c
}
