package rover

import (
	"fmt"
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
)

const (
	DefaultWheelbase  = 0.335
	DefaultTrackWidth = 0.28
	DefaultCGHeight   = 0.1
	DefaultVMax       = 5.0
	DefaultAMax       = 3.0
	DefaultDeltaMax   = 30.0 * math.Pi / 180.0
	DefaultTsAct      = 0.02
	DefaultTsSen      = 0.01

	// DefaultSingularityMargin is the smallest |cos(theta)| accepted before a
	// step is refused. It corresponds to roughly 89.99994 deg of pitch.
	DefaultSingularityMargin = 1e-6
)

// Params are the fixed constants of a rover unit. A Unit copies them at
// construction, so later edits to a Params value never reach a running unit.
type Params struct {
	Wheelbase  float64 `yaml:"wheelbase" json:"wheelbase"`
	TrackWidth float64 `yaml:"track_width" json:"track_width"`
	CGHeight   float64 `yaml:"cg_height" json:"cg_height"`

	VMax     float64 `yaml:"v_max" json:"v_max"`
	AMax     float64 `yaml:"a_max" json:"a_max"`
	DeltaMax float64 `yaml:"delta_max" json:"delta_max"`

	TsAct float64 `yaml:"ts_act" json:"ts_act"`
	TsSen float64 `yaml:"ts_sen" json:"ts_sen"`

	SingularityMargin float64 `yaml:"singularity_margin,omitempty" json:"singularity_margin,omitempty"`
}

func DefaultParams() Params {
	return Params{
		Wheelbase:         DefaultWheelbase,
		TrackWidth:        DefaultTrackWidth,
		CGHeight:          DefaultCGHeight,
		VMax:              DefaultVMax,
		AMax:              DefaultAMax,
		DeltaMax:          DefaultDeltaMax,
		TsAct:             DefaultTsAct,
		TsSen:             DefaultTsSen,
		SingularityMargin: DefaultSingularityMargin,
	}
}

// Drag is the linear viscous coefficient c = a_max / v_max.
func (p Params) Drag() float64 {
	return p.AMax / p.VMax
}

// Validate reports the first constant outside its domain. Comparisons are
// written so that NaN fails them.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"wheelbase", p.Wheelbase},
		{"v_max", p.VMax},
		{"a_max", p.AMax},
		{"ts_act", p.TsAct},
		{"ts_sen", p.TsSen},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", dynamo.ErrParameterBounds, f.name, f.value)
		}
	}

	if !(p.TrackWidth >= 0) || !(p.CGHeight >= 0) {
		return fmt.Errorf("%w: track_width and cg_height must be non-negative", dynamo.ErrParameterBounds)
	}
	if !(p.DeltaMax >= 0 && p.DeltaMax < math.Pi/2) {
		return fmt.Errorf("%w: delta_max must be in [0, pi/2), got %v", dynamo.ErrParameterBounds, p.DeltaMax)
	}
	if !(p.SingularityMargin >= 0 && p.SingularityMargin < 1) {
		return fmt.Errorf("%w: singularity_margin must be in [0, 1), got %v", dynamo.ErrParameterBounds, p.SingularityMargin)
	}
	return nil
}

func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"wheelbase":   p.Wheelbase,
		"track_width": p.TrackWidth,
		"cg_height":   p.CGHeight,
		"v_max":       p.VMax,
		"a_max":       p.AMax,
		"delta_max":   p.DeltaMax,
		"ts_act":      p.TsAct,
		"ts_sen":      p.TsSen,
	}
}

func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "wheelbase":
		p.Wheelbase = value
	case "track_width":
		p.TrackWidth = value
	case "cg_height":
		p.CGHeight = value
	case "v_max":
		p.VMax = value
	case "a_max":
		p.AMax = value
	case "delta_max":
		p.DeltaMax = value
	case "ts_act":
		p.TsAct = value
	case "ts_sen":
		p.TsSen = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
