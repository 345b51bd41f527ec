package descent

import (
	"math"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Observation is a single (x, y) pair: independent and dependent values.
type Observation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (o Observation) IsFinite() bool {
	return !math.IsNaN(o.X) && !math.IsInf(o.X, 0) &&
		!math.IsNaN(o.Y) && !math.IsInf(o.Y, 0)
}

// Columns splits a dataset into its x and y columns, preserving order.
func Columns(data []Observation) (xs, ys []float64) {
	xs = lo.Map(data, func(o Observation, _ int) float64 { return o.X })
	ys = lo.Map(data, func(o Observation, _ int) float64 { return o.Y })
	return xs, ys
}

// checkObservations rejects empty datasets and non-finite coordinates.
func checkObservations(data []Observation) error {
	if len(data) == 0 {
		return ErrEmptyDataset
	}
	for i, o := range data {
		if !o.IsFinite() {
			return errors.Annotatef(ErrInvalidObservation, "observation %d = (%v, %v)", i, o.X, o.Y)
		}
	}
	return nil
}
