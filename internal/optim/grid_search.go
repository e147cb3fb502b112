package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/control"
	"github.com/san-kum/roversim/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every grid point and returns the one with the lowest
// value of metricName. Points whose build or run fails are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid has %d names and %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, fmt.Errorf("no grid point produced metric %s", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams)
	}
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return out
}

// TuneHeadingPID searches Kp/Ki/Kd of a heading-hold scenario for the
// lowest RMS heading error.
func TuneHeadingPID(ctx context.Context, base *config.Config, registry *experiment.Registry, kp, ki, kd []float64) (map[string]float64, float64, error) {
	g := NewGridSearch([]string{"Kp", "Ki", "Kd"}, [][]float64{kp, ki, kd})
	return g.Search(ctx, func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		cfg.Controller = "pid"
		ctrl := control.NewHeadingPID(params["Kp"], params["Ki"], params["Kd"], cfg.HeadingRef(), cfg.ControllerParams.Throttle)
		return registry.Build(cfg, experiment.WithController(ctrl))
	}, "tracking_error")
}
