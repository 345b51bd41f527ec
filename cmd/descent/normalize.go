package main

import (
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sky-flux/descent"
)

func newNormalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print normalization statistics and standardized observations.",
		Args:  cobra.NoArgs,
		RunE:  runNormalize,
	}
	addDataFlags(cmd.Flags())
	addFormatFlag(cmd.Flags())
	return cmd
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := loadData(cmd, conf)
	if err != nil {
		return err
	}
	normalized, stats, err := descent.Normalize(data)
	if err != nil {
		return errors.Trace(err)
	}

	out := cmd.OutOrStdout()
	if conf.Output.Format == "json" {
		return errors.Trace(json.NewEncoder(out).Encode(struct {
			Stats        descent.Stats         `json:"stats"`
			Observations []descent.Observation `json:"observations"`
		}{stats, normalized}))
	}

	summary := tablewriter.NewWriter(out)
	summary.Header("column", "mean", "std")
	if err = summary.Bulk([][]string{
		{conf.Data.XColumn, formatFloat(stats.XMean), formatFloat(stats.XStd)},
		{conf.Data.YColumn, formatFloat(stats.YMean), formatFloat(stats.YStd)},
	}); err != nil {
		return errors.Trace(err)
	}
	if err = summary.Render(); err != nil {
		return errors.Trace(err)
	}

	points := tablewriter.NewWriter(out)
	points.Header("x", "y", "x'", "y'")
	for i, o := range normalized {
		if err = points.Append([]string{
			formatFloat(data[i].X), formatFloat(data[i].Y), formatFloat(o.X), formatFloat(o.Y),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(points.Render())
}
