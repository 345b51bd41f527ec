package main

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sky-flux/descent/optimizer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// trajectory writes every n-th observed state, and the final state, in the
// configured format as soon as it is observed. n = 0 writes the final state
// only.
type trajectory struct {
	every   int
	last    optimizer.State
	written bool // last has been written
	write   func(optimizer.State) error
	flush   func() error
	err     error
}

// Fixed widths let rows stream before every value is known.
var trajectoryWidths = tw.NewMapper[int, int]().Set(0, 11).Set(1, 18).Set(2, 18).Set(3, 18).Set(4, 11)

func newTrajectory(w io.Writer, format string, every int) (*trajectory, error) {
	t := &trajectory{every: every}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		t.write = func(s optimizer.State) error { return enc.Encode(s) }
		t.flush = func() error { return nil }
	default:
		table := tablewriter.NewTable(w,
			tablewriter.WithStreaming(tw.StreamConfig{Enable: true}),
			tablewriter.WithColumnWidths(trajectoryWidths.Clone()))
		if err := table.Start(); err != nil {
			return nil, errors.Trace(err)
		}
		table.Header("iteration", "theta0", "theta1", "mse", "converged")
		t.write = func(s optimizer.State) error {
			return table.Append([]string{
				strconv.Itoa(s.Iteration),
				formatFloat(s.Theta0),
				formatFloat(s.Theta1),
				formatFloat(s.MeanSquaredError),
				strconv.FormatBool(s.Converged),
			})
		}
		t.flush = table.Close
	}
	return t, nil
}

// Observe implements optimizer.Observer.
func (t *trajectory) Observe(s optimizer.State) {
	t.last, t.written = s, false
	if t.err != nil || t.every <= 0 || s.Iteration%t.every != 0 {
		return
	}
	t.err = t.write(s)
	t.written = true
}

// Close writes the final state if it was skipped and ends the output.
func (t *trajectory) Close() error {
	if t.err != nil {
		return errors.Trace(t.err)
	}
	if !t.written {
		if err := t.write(t.last); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(t.flush())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func formatLine(intercept, slope float64) string {
	return fmt.Sprintf("y = %s*x %+g", formatFloat(slope), intercept)
}
