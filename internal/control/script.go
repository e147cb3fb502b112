package control

import (
	"fmt"
	"sort"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// Segment applies Throttle and Steering from At until the next segment.
type Segment struct {
	At       float64 `yaml:"at" json:"at"`
	Throttle float64 `yaml:"throttle" json:"throttle"`
	Steering float64 `yaml:"steering" json:"steering"`
}

// Script replays a piecewise-constant pulse schedule. Before the first
// segment it outputs neutral pulses.
type Script struct {
	segments []Segment
}

func NewScript(segments []Segment) (*Script, error) {
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].At < segs[j].At })

	for i, s := range segs {
		if s.At < 0 {
			return nil, fmt.Errorf("script segment %d: negative start time %v", i, s.At)
		}
	}
	return &Script{segments: segs}, nil
}

func (s *Script) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *Script) Compute(x dynamo.State, t float64) dynamo.Control {
	i := sort.Search(len(s.segments), func(i int) bool { return s.segments[i].At > t })
	if i == 0 {
		return dynamo.Control{rover.PWMMin, rover.PWMNeutral}
	}
	seg := s.segments[i-1]
	return dynamo.Control{seg.Throttle, seg.Steering}
}
