package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/experiment"
	"github.com/san-kum/roversim/internal/sim"
)

// Batch is an ordered list of scenarios run one after another.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Runs        []BatchItem `yaml:"runs"`

	dir string
}

// BatchItem names either a preset or a scenario file. Duration, when set,
// overrides the scenario's tf.
type BatchItem struct {
	Preset   string  `yaml:"preset,omitempty"`
	File     string  `yaml:"file,omitempty"`
	Duration float64 `yaml:"duration,omitempty"`
	SaveAs   string  `yaml:"save_as,omitempty"`
}

type BatchResult struct {
	Config *config.Config
	Result *sim.Result
	Err    error
}

// LoadBatch loads a batch file. Scenario paths inside it are relative to
// the batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	batch.dir = filepath.Dir(path)
	return &batch, nil
}

// Resolve turns an item into a scenario config.
func (b *Batch) Resolve(item BatchItem) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case item.Preset != "" && item.File != "":
		return nil, fmt.Errorf("batch item sets both preset %q and file %q", item.Preset, item.File)
	case item.Preset != "":
		cfg = config.GetPreset(item.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", item.Preset)
		}
	case item.File != "":
		path := item.File
		if !filepath.IsAbs(path) && b.dir != "" {
			path = filepath.Join(b.dir, path)
		}
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("batch item needs a preset or a file")
	}

	if item.Duration > 0 {
		cfg.Sim.Tf = cfg.Sim.T0 + item.Duration
	}
	if item.SaveAs != "" {
		cfg.Output.RunName = item.SaveAs
	}
	return cfg, nil
}

// RunBatch executes every item in order. A failing item is recorded and
// the batch moves on; the returned error is only for cancellation.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry, logger *log.Logger) ([]BatchResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]BatchResult, 0, len(batch.Runs))

	for i, item := range batch.Runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg, err := batch.Resolve(item)
		if err != nil {
			results = append(results, BatchResult{Err: fmt.Errorf("item %d: %w", i+1, err)})
			continue
		}
		logger.Info("running", "item", fmt.Sprintf("%d/%d", i+1, len(batch.Runs)), "scenario", cfg.Name)

		exp, err := registry.Build(cfg, experiment.WithLogger(logger))
		if err != nil {
			results = append(results, BatchResult{Config: cfg, Err: fmt.Errorf("item %d: %w", i+1, err)})
			continue
		}

		result, err := exp.Run(ctx)
		if err != nil {
			logger.Warn("run failed", "scenario", cfg.Name, "err", err)
		}
		results = append(results, BatchResult{Config: cfg, Result: result, Err: err})
	}

	return results, nil
}

// ParameterSweep varies one rover parameter over [Min, Max] in Steps
// evenly spaced values.
type ParameterSweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Steps int
}

type SweepResult struct {
	Value        float64
	FinalSpeed   float64
	FinalHeading float64
	MinRollover  float64
	Err          error
}

func (s *ParameterSweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep runs the sweep points in parallel. Results keep the order of
// Values.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep has no base scenario")
	}
	probe := sweep.Base.Rover
	if _, ok := probe.GetParams()[sweep.Param]; !ok {
		return nil, fmt.Errorf("unknown rover parameter: %s", sweep.Param)
	}

	values := sweep.Values()
	results := make([]SweepResult, len(values))

	dynamo.ParallelFor(len(values), 1, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = runPoint(ctx, sweep, registry, values[i])
		}
	})

	return results, ctx.Err()
}

func runPoint(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, value float64) SweepResult {
	res := SweepResult{Value: value, MinRollover: math.NaN()}

	cfg := sweep.Base.Clone()
	if err := cfg.Rover.SetParam(sweep.Param, value); err != nil {
		res.Err = err
		return res
	}

	exp, err := registry.Build(cfg)
	if err != nil {
		res.Err = err
		return res
	}
	result, err := exp.Run(ctx)
	if result != nil {
		if final, ok := result.Final(); ok {
			res.FinalSpeed = final.Outputs.U
			res.FinalHeading = final.Outputs.Psi
		}
		res.MinRollover = result.Metrics["rollover_margin"]
	}
	res.Err = err
	return res
}

// MonteCarloConfig perturbs the initial speed and heading of a base
// scenario with uniform noise.
type MonteCarloConfig struct {
	Base          *config.Config
	SpeedSpread   float64
	HeadingSpread float64
	NumTrials     int
	Seed          int64
}

type MonteCarloResult struct {
	TrialID     int
	InitSpeed   float64
	InitHeading float64
	Final       sim.Sample
	Stable      bool
}

// RunMonteCarlo draws every perturbation up front from a seeded source,
// so results are reproducible, then runs the trials as one ensemble.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if mc.Base == nil {
		return nil, fmt.Errorf("monte carlo has no base scenario")
	}
	rng := rand.New(rand.NewSource(mc.Seed))
	results := make([]MonteCarloResult, mc.NumTrials)
	sims := make([]*sim.Simulator, mc.NumTrials)

	for trial := range results {
		cfg := mc.Base.Clone()
		cfg.Initial.U += (rng.Float64() - 0.5) * 2 * mc.SpeedSpread
		cfg.Initial.HeadingDeg += (rng.Float64() - 0.5) * 2 * mc.HeadingSpread

		exp, err := registry.Build(cfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		sims[trial] = exp.GetSimulator()
		results[trial] = MonteCarloResult{
			TrialID:     trial,
			InitSpeed:   cfg.Initial.U,
			InitHeading: cfg.Initial.HeadingDeg,
		}
	}

	runs, errs := sim.NewEnsemble(sims...).Run(ctx, mc.Base.RunConfig())
	if err := ctx.Err(); err != nil {
		return results, err
	}
	for i, run := range runs {
		if run == nil {
			continue
		}
		results[i].Final, _ = run.Final()
		results[i].Stable = errs[i] == nil && run.Metrics["rollover_margin"] > 0
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
