package main

import (
	"runtime"
	"strconv"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sky-flux/descent"
	"github.com/sky-flux/descent/internal/log"
	"github.com/sky-flux/descent/optimizer"
)

func newSweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare learning rates on the same normalized observations.",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addDataFlags(cmd.Flags())
	addOptimizerFlags(cmd.Flags())
	addFormatFlag(cmd.Flags())
	cmd.Flags().Float64Slice("learning-rates", []float64{0.01, 0.1, 0.5, 1, 1.5, 1.95}, "learning rates to compare")
	cmd.Flags().Int("jobs", runtime.NumCPU(), "number of concurrent descents")
	return cmd
}

// sweepRow is the JSON form of a SweepResult.
type sweepRow struct {
	optimizer.SweepResult
	Error string `json:"error,omitempty"`
	Best  bool   `json:"best"`
}

func runSweep(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := loadData(cmd, conf)
	if err != nil {
		return err
	}
	normalized, _, err := descent.Normalize(data)
	if err != nil {
		return errors.Trace(err)
	}
	rates, _ := cmd.Flags().GetFloat64Slice("learning-rates")
	jobs, _ := cmd.Flags().GetInt("jobs")
	candidates := optimizer.WithLearningRates(conf.Hyperparameters(), rates)
	log.Logger().Info("start sweep", zap.Float64s("learning_rates", rates), zap.Int("jobs", jobs))

	results, err := optimizer.Sweep(cmd.Context(), normalized, candidates, jobs)
	if err != nil {
		return errors.Trace(err)
	}
	best, found := optimizer.BestResult(results)
	isBest := func(r optimizer.SweepResult) bool { return found && r.Index == best.Index }

	out := cmd.OutOrStdout()
	if conf.Output.Format == "json" {
		enc := json.NewEncoder(out)
		for _, r := range results {
			row := sweepRow{SweepResult: r, Best: isBest(r)}
			if r.Err != nil {
				row.Error = r.Err.Error()
			}
			if err := enc.Encode(row); err != nil {
				return errors.Trace(err)
			}
		}
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("#", "learning rate", "phase", "iterations", "theta0", "theta1", "mse", "best")
	for _, r := range results {
		phase := r.Phase.String()
		if r.Err != nil {
			phase = "Diverged"
		}
		mark := ""
		if isBest(r) {
			mark = "*"
		}
		if err := table.Append([]string{
			strconv.Itoa(r.Index),
			formatFloat(r.Hyperparameters.LearningRate),
			phase,
			strconv.Itoa(r.Final.Iteration),
			formatFloat(r.Final.Theta0),
			formatFloat(r.Final.Theta1),
			formatFloat(r.Final.MeanSquaredError),
			mark,
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
