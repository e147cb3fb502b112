package control

import (
	"sync"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// Manual returns whatever pulses were last set. The live view writes them
// from key presses while the sim loop reads them.
type Manual struct {
	mu       sync.Mutex
	throttle float64
	steering float64
}

func NewManual() *Manual {
	return &Manual{throttle: rover.PWMMin, steering: rover.PWMNeutral}
}

func (m *Manual) Set(throttle, steering float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.throttle = throttle
	m.steering = steering
}

// Nudge adds to the current pulses.
func (m *Manual) Nudge(dThrottle, dSteering float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.throttle += dThrottle
	m.steering += dSteering
}

func (m *Manual) Get() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.throttle, m.steering
}

func (m *Manual) Compute(x dynamo.State, t float64) dynamo.Control {
	thr, str := m.Get()
	return dynamo.Control{thr, str}
}
