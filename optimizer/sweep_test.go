package optimizer

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sky-flux/descent"
)

func TestWithLearningRates(t *testing.T) {
	got := WithLearningRates(descent.DefaultHyperparameters, []float64{0.1, 0.5})
	require.Len(t, got, 2)
	assert.Equal(t, 0.1, got[0].LearningRate)
	assert.Equal(t, 0.5, got[1].LearningRate)
	assert.Equal(t, descent.DefaultHyperparameters.MaxIterations, got[1].MaxIterations)
	assert.Equal(t, descent.DefaultHyperparameters.InitialTheta0, got[0].InitialTheta0)
}

func TestSweepMatchesSequentialRuns(t *testing.T) {
	data := normalizedSample(t)
	candidates := WithLearningRates(descent.DefaultHyperparameters, []float64{0.05, 0.3, 1, 1.95})

	results, err := Sweep(context.Background(), data, candidates, 2)
	require.NoError(t, err)
	require.Len(t, results, len(candidates))

	for i, hp := range candidates {
		o, err := NewOptimizer(data, hp)
		require.NoError(t, err)
		want, err := o.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, i, results[i].Index)
		assert.Equal(t, hp, results[i].Hyperparameters)
		assert.Equal(t, want, results[i].Final)
		assert.Equal(t, o.Phase(), results[i].Phase)
		assert.NoError(t, results[i].Err)
	}
}

func TestSweepRecordsDivergence(t *testing.T) {
	data := []descent.Observation{{X: 1e150, Y: 1}, {X: -1e150, Y: -1}, {X: 1, Y: 0}}
	candidates := []descent.Hyperparameters{
		hyper(1, 1e-4, 10, 0, 0),
		hyper(1e-300, 1e-4, 10, 0, 0),
	}
	results, err := Sweep(context.Background(), data, candidates, 0)
	require.NoError(t, err)
	assert.True(t, errors.Is(results[0].Err, descent.ErrDivergence))
	assert.NoError(t, results[1].Err)

	best, ok := BestResult(results)
	require.True(t, ok)
	assert.Equal(t, 1, best.Index)
}

func TestSweepRecordsNonFiniteInitialCost(t *testing.T) {
	data := normalizedSample(t)
	candidates := []descent.Hyperparameters{
		hyper(0.1, 1e-4, 10, 0, 1e300),
		hyper(0.1, 1e-4, 10, 0, 0),
	}
	results, err := Sweep(context.Background(), data, candidates, 2)
	require.NoError(t, err)
	assert.True(t, errors.Is(results[0].Err, descent.ErrDivergence))
	assert.Equal(t, 0, results[0].Final.Iteration)
	assert.Equal(t, 1e300, results[0].Final.Theta1)
	assert.NoError(t, results[1].Err)
}

func TestSweepInvalidCandidate(t *testing.T) {
	candidates := []descent.Hyperparameters{descent.DefaultHyperparameters, hyper(0, 0, 10, 0, 0)}
	_, err := Sweep(context.Background(), symmetricData, candidates, 1)
	assert.True(t, errors.Is(err, descent.ErrInvalidHyperparameter))
	assert.Contains(t, err.Error(), "candidate 1")
}

func TestSweepEmptyDataset(t *testing.T) {
	_, err := Sweep(context.Background(), nil, []descent.Hyperparameters{descent.DefaultHyperparameters}, 1)
	assert.True(t, errors.Is(err, descent.ErrEmptyDataset))
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, normalizedSample(t), []descent.Hyperparameters{hyper(0.001, 0, 1000, 0, 0)}, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBestResult(t *testing.T) {
	_, ok := BestResult(nil)
	assert.False(t, ok)

	results := []SweepResult{
		{Index: 0, Final: State{MeanSquaredError: 0.3}},
		{Index: 1, Final: State{MeanSquaredError: 0.1}},
		{Index: 2, Final: State{MeanSquaredError: 0.05}, Err: descent.ErrDivergence},
		{Index: 3, Final: State{MeanSquaredError: 0.2}},
	}
	best, ok := BestResult(results)
	require.True(t, ok)
	assert.Equal(t, 1, best.Index)
}
