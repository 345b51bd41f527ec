package optimizer

import (
	"context"
	"math"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/sky-flux/descent"
)

// SweepResult is the outcome of one candidate in a [Sweep].
type SweepResult struct {
	Index           int                     `json:"index"`
	Hyperparameters descent.Hyperparameters `json:"hyperparameters"`
	Final           State                   `json:"final"`
	Phase           descent.Phase           `json:"phase"`
	Err             error                   `json:"-"` // descent.ErrDivergence, or nil
}

// WithLearningRates returns one copy of base per learning rate.
func WithLearningRates(base descent.Hyperparameters, rates []float64) []descent.Hyperparameters {
	return lo.Map(rates, func(rate float64, _ int) descent.Hyperparameters {
		hp := base
		hp.LearningRate = rate
		return hp
	})
}

// Sweep runs one independent descent per candidate over the same data, at
// most jobs at a time (jobs <= 0 means no limit). The dataset columns are
// built once and shared read-only between the runs.
//
// Results are returned in candidate order. A candidate that diverges is
// reported through its Err field; invalid candidates, an empty or invalid
// dataset, and context cancellation fail the whole sweep.
func Sweep(ctx context.Context, data []descent.Observation, candidates []descent.Hyperparameters, jobs int) ([]SweepResult, error) {
	c, err := newColumns(data)
	if err != nil {
		return nil, err
	}
	for i, hp := range candidates {
		if err := hp.Validate(); err != nil {
			return nil, errors.Annotatef(err, "candidate %d", i)
		}
	}

	results := make([]SweepResult, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, hp := range candidates {
		i, hp := i, hp
		g.Go(func() error {
			o, err := newOptimizer(c, hp)
			final := o.State()
			if err == nil {
				final, err = o.Run(ctx)
			}
			if err != nil && !errors.Is(err, descent.ErrDivergence) {
				return errors.Annotatef(err, "candidate %d", i)
			}
			results[i] = SweepResult{
				Index:           i,
				Hyperparameters: hp,
				Final:           final,
				Phase:           o.Phase(),
				Err:             err,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestResult returns the successful result with the lowest final mean
// squared error. The second return value is false when every candidate
// diverged or results is empty.
func BestResult(results []SweepResult) (SweepResult, bool) {
	ok := lo.Filter(results, func(r SweepResult, _ int) bool {
		return r.Err == nil && !math.IsNaN(r.Final.MeanSquaredError)
	})
	if len(ok) == 0 {
		return SweepResult{}, false
	}
	return lo.MinBy(ok, func(a, b SweepResult) bool {
		return a.Final.MeanSquaredError < b.Final.MeanSquaredError
	}), true
}
