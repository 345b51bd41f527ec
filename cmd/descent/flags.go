package main

import (
	"unicode/utf8"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sky-flux/descent"
	"github.com/sky-flux/descent/internal/config"
	"github.com/sky-flux/descent/internal/dataload"
	"github.com/sky-flux/descent/internal/log"
)

// Synthetic data mimics drive distance (yards) against fairway accuracy (%).
const (
	syntheticSlope     = -0.45
	syntheticIntercept = 190
	syntheticNoise     = 3
)

func addDataFlags(flagSet *pflag.FlagSet) {
	conf := config.GetDefaultConfig()
	flagSet.String("data", conf.Data.Path, "CSV file of observations")
	flagSet.String("x-column", conf.Data.XColumn, "x column name or index")
	flagSet.String("y-column", conf.Data.YColumn, "y column name or index")
	flagSet.String("separator", conf.Data.Separator, "CSV field separator")
	flagSet.Bool("header", conf.Data.Header, "CSV file has a header line")
	flagSet.Int("synthetic", 0, "generate this many synthetic observations instead of reading --data")
	flagSet.Int64("seed", 0, "seed of synthetic observations")
}

func addOptimizerFlags(flagSet *pflag.FlagSet) {
	conf := config.GetDefaultConfig()
	flagSet.Float64("learning-rate", conf.Optimizer.LearningRate, "learning rate")
	flagSet.Float64("convergence-threshold", conf.Optimizer.ConvergenceThreshold, "stop once the cost decreases by less than this")
	flagSet.Int("max-iterations", conf.Optimizer.MaxIterations, "maximum number of steps")
	flagSet.Float64("initial-theta0", conf.Optimizer.InitialTheta0, "initial intercept")
	flagSet.Float64("initial-theta1", conf.Optimizer.InitialTheta1, "initial slope")
}

func addFormatFlag(flagSet *pflag.FlagSet) {
	flagSet.String("format", config.GetDefaultConfig().Output.Format, "output format (table or json)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		log.Logger().Info("load config", zap.String("config", configPath))
	}
	conf, err := config.LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return nil, errors.Annotate(err, "failed to load config")
	}
	return conf, nil
}

func loadData(cmd *cobra.Command, conf *config.Config) ([]descent.Observation, error) {
	if n, _ := cmd.Flags().GetInt("synthetic"); n > 0 {
		seed, _ := cmd.Flags().GetInt64("seed")
		log.Logger().Info("generate synthetic observations", zap.Int("n", n), zap.Int64("seed", seed))
		return descent.Synthesize(n, syntheticSlope, syntheticIntercept, syntheticNoise, seed), nil
	}
	if conf.Data.Path == "" {
		return nil, errors.NotValidf("no observations: set --data or --synthetic")
	}
	separator, _ := utf8.DecodeRuneInString(conf.Data.Separator)
	data, err := dataload.LoadCSV(conf.Data.Path, dataload.Options{
		XColumn:   conf.Data.XColumn,
		YColumn:   conf.Data.YColumn,
		Separator: separator,
		Header:    conf.Data.Header,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load observations", zap.String("path", conf.Data.Path), zap.Int("n", len(data)))
	return data, nil
}
