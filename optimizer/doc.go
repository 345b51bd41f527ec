// Package optimizer fits h(x) = theta1*x + theta0 by batch gradient descent,
// one observable step at a time.
//
// It provides two main capabilities:
//
//   - [Optimizer] owns the model parameters of a single descent. Each call to
//     [Optimizer.Step] computes both partial derivatives of the mean squared
//     error from the current parameters, updates the parameters
//     simultaneously with a fixed learning rate, and reports the new
//     [State]. [Optimizer.Run] steps until the descent converges or exhausts
//     its iteration budget, notifying [Observer]s along the way.
//
//   - [Sweep] runs one independent optimizer per candidate set of
//     hyperparameters concurrently over a shared read-only dataset, so the
//     trajectories of different learning rates can be compared.
//
// # Usage
//
//	opt, err := optimizer.NewOptimizer(normalized, descent.DefaultHyperparameters)
//	rec := &optimizer.Recorder{}
//	final, err := opt.Run(ctx, rec)
//
// # Convergence
//
// A step converges when the mean squared error decreased by less than the
// convergence threshold across that step. The test is not an absolute value:
// a step that increases the cost also counts as converged. Stepping is always
// caller-initiated; the optimizer holds no timers.
package optimizer
