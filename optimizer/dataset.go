package optimizer

import (
	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/sky-flux/descent"
)

// columns is the column form of a dataset. It is never written after
// construction, so one value may back any number of optimizers.
type columns struct {
	xs, ys []float64
}

// newColumns validates data and splits it into x and y columns.
func newColumns(data []descent.Observation) (columns, error) {
	if len(data) == 0 {
		return columns{}, descent.ErrEmptyDataset
	}
	if o, i, found := lo.FindIndexOf(data, func(o descent.Observation) bool { return !o.IsFinite() }); found {
		return columns{}, errors.Annotatef(descent.ErrInvalidObservation, "observation %d = (%v, %v)", i, o.X, o.Y)
	}
	xs, ys := descent.Columns(data)
	return columns{xs: xs, ys: ys}, nil
}

func (c columns) len() int {
	return len(c.xs)
}
