package zoh

import (
	"fmt"
	"math"
)

// relTol is the fraction of a period under which a boundary and a time are
// treated as the same instant. Step sums such as 0.1+0.1+0.1 land a few
// ulps away from 0.3.
const relTol = 1e-9

// absTol scales with |t|: far from the origin a compensated clock and
// k·Period can still differ by a few ulps of t.
const absTol = 8 * 0x1p-52

// Schedule is a periodic trigger with origin at t = 0.
type Schedule struct {
	period float64
	tol    float64
	next   int64
}

func NewSchedule(period float64) (Schedule, error) {
	if !(period > 0) || math.IsInf(period, 0) {
		return Schedule{}, fmt.Errorf("zoh: period must be positive and finite, got %v", period)
	}
	return Schedule{period: period, tol: period * relTol}, nil
}

func (s *Schedule) Period() float64 { return s.period }

// Tolerance is the width within which two instants near the origin
// coincide. Far from the origin the width grows with |t|.
func (s *Schedule) Tolerance() float64 { return s.tol }

func (s *Schedule) tolAt(t float64) float64 {
	return max(s.tol, math.Abs(t)*absTol)
}

// Next is the time of the earliest boundary not yet consumed.
func (s *Schedule) Next() float64 {
	return float64(s.next) * s.period
}

// Fired is the number of boundaries consumed so far.
func (s *Schedule) Fired() int64 { return s.next }

// Due reports whether the next boundary is at or before t.
func (s *Schedule) Due(t float64) bool {
	return s.Next() <= t+s.tolAt(t)
}

// Before reports whether the next boundary lies strictly before t.
func (s *Schedule) Before(t float64) bool {
	return s.Next() < t-s.tolAt(t)
}

// Consume marks the next boundary as fired and returns its time.
func (s *Schedule) Consume() float64 {
	tb := s.Next()
	s.next++
	return tb
}

// Count returns how many unconsumed boundaries lie before upTo, or at
// upTo when inclusive is set. It does not consume them.
func (s *Schedule) Count(upTo float64, inclusive bool) int {
	tol := s.tolAt(upTo)
	limit := upTo - tol
	if inclusive {
		limit = upTo + tol
	}
	first := s.Next()
	if first > limit {
		return 0
	}
	return int(math.Floor((limit-first)/s.period)) + 1
}

func (s *Schedule) Reset() { s.next = 0 }
