package descent

import (
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// Stats holds the sample mean and sample standard deviation of each
// dimension of a raw dataset. XStd and YStd are always positive.
type Stats struct {
	XMean float64 `json:"x_mean"`
	XStd  float64 `json:"x_std"`
	YMean float64 `json:"y_mean"`
	YStd  float64 `json:"y_std"`
}

// ComputeStats returns the normalization statistics of data.
// Standard deviations use the n-1 (sample) denominator.
func ComputeStats(data []Observation) (Stats, error) {
	if err := checkObservations(data); err != nil {
		return Stats{}, err
	}
	if len(data) < 2 {
		return Stats{}, errors.Annotatef(ErrDegenerateDataset, "need at least 2 observations, got %d", len(data))
	}

	xs, ys := Columns(data)
	var s Stats
	s.XMean, s.XStd = stat.MeanStdDev(xs, nil)
	s.YMean, s.YStd = stat.MeanStdDev(ys, nil)

	if !(s.XStd > 0) {
		return Stats{}, errors.Annotatef(ErrDegenerateDataset, "x has zero variance (all values %v)", xs[0])
	}
	if !(s.YStd > 0) {
		return Stats{}, errors.Annotatef(ErrDegenerateDataset, "y has zero variance (all values %v)", ys[0])
	}
	return s, nil
}

// Normalize rescales data to zero mean and unit sample standard deviation in
// both dimensions. It returns a new slice in the same order together with
// the statistics used; data is not modified.
func Normalize(data []Observation) ([]Observation, Stats, error) {
	s, err := ComputeStats(data)
	if err != nil {
		return nil, Stats{}, err
	}
	out := make([]Observation, len(data))
	for i, o := range data {
		out[i] = s.Apply(o)
	}
	return out, s, nil
}

// Apply normalizes a single raw observation.
func (s Stats) Apply(o Observation) Observation {
	return Observation{
		X: (o.X - s.XMean) / s.XStd,
		Y: (o.Y - s.YMean) / s.YStd,
	}
}

// Invert maps a normalized observation back to the raw scale.
func (s Stats) Invert(o Observation) Observation {
	return Observation{
		X: o.X*s.XStd + s.XMean,
		Y: o.Y*s.YStd + s.YMean,
	}
}

// Denormalize converts a line fitted in normalized space,
// y' = theta1*x' + theta0, into the equivalent raw-scale line
// y = slope*x + intercept.
func (s Stats) Denormalize(theta0, theta1 float64) (intercept, slope float64) {
	slope = s.YStd * theta1 / s.XStd
	intercept = s.YMean + s.YStd*theta0 - slope*s.XMean
	return intercept, slope
}
