package sim

import (
	"context"
	"sync"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Ensemble runs independent simulators concurrently with a shared config.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims ...*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

func (e *Ensemble) Len() int { return len(e.sims) }

// Run returns one result and one error per simulator, in order.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*Result, []error) {
	results := make([]*Result, len(e.sims))
	errs := make([]error, len(e.sims))

	var wg sync.WaitGroup
	for i, s := range e.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, s)
	}

	wg.Wait()
	return results, errs
}
