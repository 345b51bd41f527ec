// Package descent fits a two-parameter linear model to paired observations
// with fixed-learning-rate batch gradient descent.
//
// The root package holds the data model shared by every component: the
// [Observation] pair, the dataset normalizer ([Normalize] and [Stats]), the
// [Hyperparameters] that configure a descent, and the [Phase] a descent is
// in. The step-by-step optimizer lives in the descent/optimizer subpackage.
//
// Basic usage:
//
//	norm, stats, err := descent.Normalize(points)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opt, err := optimizer.NewOptimizer(norm, descent.DefaultHyperparameters)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for opt.Phase() == descent.Running {
//	    state, err := opt.Step()
//	    ...
//	}
//	intercept, slope := stats.Denormalize(opt.State().Theta0, opt.State().Theta1)
package descent
