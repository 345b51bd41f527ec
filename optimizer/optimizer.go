package optimizer

import (
	"context"
	"math"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/sky-flux/descent"
)

// Optimizer runs batch gradient descent for h(x) = theta1*x + theta0.
// All mutable state lives in the optimizer; an Optimizer must not be stepped
// from several goroutines at once, but independent optimizers never interact.
type Optimizer struct {
	hp        descent.Hyperparameters
	data      columns
	rule      descentRule
	model     model
	state     State
	residuals []float64 // scratch, len(data)
	logger    *zap.Logger
}

// NewOptimizer creates an Optimizer over data, which is usually the output of
// [descent.Normalize]. The data is copied; hp is validated and never changes.
//
// Returns descent.ErrEmptyDataset, descent.ErrInvalidObservation,
// descent.ErrInvalidHyperparameter, or descent.ErrDivergence when the cost at
// the initial parameters is already not finite.
func NewOptimizer(data []descent.Observation, hp descent.Hyperparameters) (*Optimizer, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	c, err := newColumns(data)
	if err != nil {
		return nil, err
	}
	o, err := newOptimizer(c, hp)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// newOptimizer builds an optimizer over pre-validated columns. The optimizer
// is returned even when the initial cost is not finite, together with
// descent.ErrDivergence.
func newOptimizer(c columns, hp descent.Hyperparameters) (*Optimizer, error) {
	o := &Optimizer{
		hp:        hp,
		data:      c,
		rule:      newDescentRule(hp.LearningRate),
		model:     model{theta0: hp.InitialTheta0, theta1: hp.InitialTheta1},
		residuals: make([]float64, c.len()),
		logger:    zap.NewNop(),
	}
	o.state = State{
		Theta0:           o.model.theta0,
		Theta1:           o.model.theta1,
		MeanSquaredError: meanSquaredError(o.model.residuals(o.residuals, c)),
	}
	if !finite(o.state.MeanSquaredError) {
		return o, errors.Annotatef(descent.ErrDivergence,
			"initial mse=%v at theta=(%v, %v)", o.state.MeanSquaredError, o.model.theta0, o.model.theta1)
	}
	return o, nil
}

// SetLogger directs step diagnostics to logger. A nil logger disables them.
func (o *Optimizer) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o.logger = logger
}

// Hyperparameters returns the hyperparameters the optimizer was built with.
func (o *Optimizer) Hyperparameters() descent.Hyperparameters {
	return o.hp
}

// Len returns the number of observations.
func (o *Optimizer) Len() int {
	return o.data.len()
}

// State returns the current snapshot.
func (o *Optimizer) State() State {
	return o.state
}

// Phase reports whether the descent is still running. Convergence takes
// precedence when the last allowed step also converged.
func (o *Optimizer) Phase() descent.Phase {
	switch {
	case o.state.Converged:
		return descent.Converged
	case o.state.Iteration >= o.hp.MaxIterations:
		return descent.Exhausted
	default:
		return descent.Running
	}
}

// Hypothesis evaluates theta1*x + theta0 with the current parameters.
func (o *Optimizer) Hypothesis(x float64) float64 {
	return o.model.predict(x)
}

// Cost returns the mean squared error of the current parameters over an
// arbitrary dataset, e.g. held-out points normalized with the same stats.
// It returns 0 for an empty dataset.
func (o *Optimizer) Cost(data []descent.Observation) float64 {
	if len(data) == 0 {
		return 0
	}
	xs, ys := descent.Columns(data)
	return meanSquaredError(o.model.residuals(make([]float64, len(data)), columns{xs: xs, ys: ys}))
}

// Gradient returns the partial derivatives of the cost with respect to
// theta0 and theta1 at the current parameters.
func (o *Optimizer) Gradient() (d0, d1 float64) {
	g := gradient(o.model.residuals(o.residuals, o.data), o.data)
	return g[0], g[1]
}

// Step performs one gradient descent update and returns the new state.
//
// Step refuses to run once the descent is terminal: it returns
// descent.ErrConverged after convergence and descent.ErrIterationLimit after
// MaxIterations steps. If the update produces non-finite parameters or cost,
// it returns descent.ErrDivergence. On any error the state is unchanged.
func (o *Optimizer) Step() (State, error) {
	switch o.Phase() {
	case descent.Converged:
		return o.state, errors.Annotatef(descent.ErrConverged, "at iteration %d", o.state.Iteration)
	case descent.Exhausted:
		return o.state, errors.Annotatef(descent.ErrIterationLimit, "max iterations %d", o.hp.MaxIterations)
	}

	// Cost and gradient share the residuals of the current parameters.
	r := o.model.residuals(o.residuals, o.data)
	mseBefore := meanSquaredError(r)
	grad := gradient(r, o.data)

	params := o.rule.update(o.model.params(), grad)
	next := model{theta0: params[0], theta1: params[1]}
	mseAfter := meanSquaredError(next.residuals(o.residuals, o.data))

	if !finite(next.theta0) || !finite(next.theta1) || !finite(mseAfter) {
		o.logger.Warn("gradient descent diverged",
			zap.Int("iteration", o.state.Iteration),
			zap.Float64("theta0", next.theta0),
			zap.Float64("theta1", next.theta1),
			zap.Float64("mse", mseAfter))
		return o.state, errors.Annotatef(descent.ErrDivergence,
			"step %d: theta=(%v, %v), mse=%v", o.state.Iteration+1, next.theta0, next.theta1, mseAfter)
	}

	o.model = next
	o.state = State{
		Iteration:        o.state.Iteration + 1,
		Theta0:           next.theta0,
		Theta1:           next.theta1,
		MeanSquaredError: mseAfter,
		// A cost increase is a negative decrease and also satisfies this.
		Converged: mseBefore-mseAfter < o.hp.ConvergenceThreshold,
	}

	o.logger.Debug("gradient descent step",
		zap.Int("iteration", o.state.Iteration),
		zap.Float64("theta0", o.state.Theta0),
		zap.Float64("theta1", o.state.Theta1),
		zap.Float64("mse", o.state.MeanSquaredError),
		zap.Float64("decrease", mseBefore-mseAfter))
	switch o.Phase() {
	case descent.Converged:
		o.logger.Info("gradient descent converged",
			zap.Int("iteration", o.state.Iteration),
			zap.Float64("mse", o.state.MeanSquaredError))
	case descent.Exhausted:
		o.logger.Info("gradient descent reached iteration limit",
			zap.Int("iteration", o.state.Iteration),
			zap.Float64("mse", o.state.MeanSquaredError))
	}
	return o.state, nil
}

// Run steps the optimizer until it converges or exhausts MaxIterations. Every
// observer first receives the current state, then the state after each step.
// The context is checked between steps; on cancellation or divergence Run
// returns the last good state together with the error.
func (o *Optimizer) Run(ctx context.Context, observers ...Observer) (State, error) {
	notify(observers, o.state)
	for o.Phase() == descent.Running {
		if err := ctx.Err(); err != nil {
			return o.state, err
		}
		s, err := o.Step()
		if err != nil {
			return o.state, err
		}
		notify(observers, s)
	}
	return o.state, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
