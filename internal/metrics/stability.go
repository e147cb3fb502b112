package metrics

import (
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// Stability is the fraction of samples in which every watched channel
// stays within threshold. It watches roll and pitch unless told otherwise.
type Stability struct {
	threshold float64
	channels  []int

	inside  int
	samples int
	worst   float64
}

func NewStability(threshold float64, channels ...int) *Stability {
	if len(channels) == 0 {
		channels = []int{rover.MeasPhi, rover.MeasTheta}
	}
	return &Stability{threshold: threshold, channels: channels}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	ok := true
	for _, idx := range s.channels {
		if idx >= len(x) {
			continue
		}
		a := math.Abs(x[idx])
		s.worst = math.Max(s.worst, a)
		if a > s.threshold {
			ok = false
		}
	}
	if ok {
		s.inside++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return float64(s.inside) / float64(s.samples)
}

// Worst is the largest magnitude seen on any watched channel.
func (s *Stability) Worst() float64 { return s.worst }

func (s *Stability) Reset() {
	s.inside, s.samples, s.worst = 0, 0, 0
}
