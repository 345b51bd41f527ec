package descent

import (
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// LeastSquares returns the closed-form ordinary least squares line
// y = theta1*x + theta0 for data. Gradient descent on the same data and
// scale approaches this solution; it serves as a reference point.
func LeastSquares(data []Observation) (theta0, theta1 float64, err error) {
	if err := checkObservations(data); err != nil {
		return 0, 0, err
	}
	if len(data) < 2 {
		return 0, 0, errors.Annotatef(ErrDegenerateDataset, "need at least 2 observations, got %d", len(data))
	}
	xs, ys := Columns(data)
	if !(stat.Variance(xs, nil) > 0) {
		return 0, 0, errors.Annotate(ErrDegenerateDataset, "x has zero variance")
	}
	theta0, theta1 = stat.LinearRegression(xs, ys, nil, false)
	return theta0, theta1, nil
}
