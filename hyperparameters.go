package descent

import (
	"math"

	"github.com/juju/errors"
)

// Hyperparameters configure one gradient descent run. They are fixed for the
// lifetime of an optimizer.
type Hyperparameters struct {
	LearningRate         float64 `json:"learning_rate"`         // alpha, > 0
	ConvergenceThreshold float64 `json:"convergence_threshold"` // >= 0
	MaxIterations        int     `json:"max_iterations"`        // > 0
	InitialTheta0        float64 `json:"initial_theta0"`
	InitialTheta1        float64 `json:"initial_theta1"`
}

// DefaultHyperparameters reproduce the reference demonstration: a large but
// stable step on normalized data starting from the line y = 2x - 2.
var DefaultHyperparameters = Hyperparameters{
	LearningRate:         1.95,
	ConvergenceThreshold: 1e-4,
	MaxIterations:        1000,
	InitialTheta0:        -2,
	InitialTheta1:        2,
}

// Validate checks hp. Zero is a meaningful value for the threshold and the
// initial parameters, so no field is defaulted.
func (hp Hyperparameters) Validate() error {
	switch {
	case !isFinite(hp.LearningRate) || hp.LearningRate <= 0:
		return errors.Annotatef(ErrInvalidHyperparameter, "learning rate %v must be positive", hp.LearningRate)
	case !isFinite(hp.ConvergenceThreshold) || hp.ConvergenceThreshold < 0:
		return errors.Annotatef(ErrInvalidHyperparameter, "convergence threshold %v must not be negative", hp.ConvergenceThreshold)
	case hp.MaxIterations <= 0:
		return errors.Annotatef(ErrInvalidHyperparameter, "max iterations %d must be positive", hp.MaxIterations)
	case !isFinite(hp.InitialTheta0) || !isFinite(hp.InitialTheta1):
		return errors.Annotatef(ErrInvalidHyperparameter, "initial parameters (%v, %v) must be finite",
			hp.InitialTheta0, hp.InitialTheta1)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
