package descent

import "github.com/juju/errors"

// Sentinel errors for the descent packages.
// Use errors.Is to check: errors.Is(err, descent.ErrDegenerateDataset)
const (
	ErrEmptyDataset          = errors.ConstError("descent: empty dataset")
	ErrDegenerateDataset     = errors.ConstError("descent: degenerate dataset")
	ErrInvalidObservation    = errors.ConstError("descent: invalid observation")
	ErrInvalidHyperparameter = errors.ConstError("descent: invalid hyperparameter")
	ErrDivergence            = errors.ConstError("descent: divergence observed")
	ErrConverged             = errors.ConstError("descent: already converged")
	ErrIterationLimit        = errors.ConstError("descent: iteration limit reached")
)
