// Package config loads the descent command configuration from defaults, an
// optional config file, DESCENT_* environment variables and command flags.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sky-flux/descent"
)

// Config is the configuration of the descent command.
type Config struct {
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Data      DataConfig      `mapstructure:"data"`
	Output    OutputConfig    `mapstructure:"output"`
}

// OptimizerConfig holds the hyperparameters of a descent.
type OptimizerConfig struct {
	LearningRate         float64 `mapstructure:"learning_rate" validate:"gt=0"`
	ConvergenceThreshold float64 `mapstructure:"convergence_threshold" validate:"gte=0"`
	MaxIterations        int     `mapstructure:"max_iterations" validate:"gt=0"`
	InitialTheta0        float64 `mapstructure:"initial_theta0"`
	InitialTheta1        float64 `mapstructure:"initial_theta1"`
}

// DataConfig describes where observations come from. Columns are header
// names, or zero-based indexes when the file has no header.
type DataConfig struct {
	Path      string `mapstructure:"path"`
	XColumn   string `mapstructure:"x_column" validate:"required"`
	YColumn   string `mapstructure:"y_column" validate:"required"`
	Separator string `mapstructure:"separator" validate:"len=1"`
	Header    bool   `mapstructure:"header"`
}

// OutputConfig controls how the trajectory is reported.
type OutputConfig struct {
	Format      string        `mapstructure:"format" validate:"oneof=table json"`
	Every       int           `mapstructure:"every" validate:"gte=0"`
	Interval    time.Duration `mapstructure:"interval" validate:"gte=0"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
}

// Hyperparameters converts the optimizer section.
func (c *Config) Hyperparameters() descent.Hyperparameters {
	return descent.Hyperparameters{
		LearningRate:         c.Optimizer.LearningRate,
		ConvergenceThreshold: c.Optimizer.ConvergenceThreshold,
		MaxIterations:        c.Optimizer.MaxIterations,
		InitialTheta0:        c.Optimizer.InitialTheta0,
		InitialTheta1:        c.Optimizer.InitialTheta1,
	}
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"learning-rate":         "optimizer.learning_rate",
	"convergence-threshold": "optimizer.convergence_threshold",
	"max-iterations":        "optimizer.max_iterations",
	"initial-theta0":        "optimizer.initial_theta0",
	"initial-theta1":        "optimizer.initial_theta1",
	"data":                  "data.path",
	"x-column":              "data.x_column",
	"y-column":              "data.y_column",
	"separator":             "data.separator",
	"header":                "data.header",
	"format":                "output.format",
	"every":                 "output.every",
	"interval":              "output.interval",
	"metrics-addr":          "output.metrics_addr",
}

func setDefaults(v *viper.Viper) {
	hp := descent.DefaultHyperparameters
	v.SetDefault("optimizer.learning_rate", hp.LearningRate)
	v.SetDefault("optimizer.convergence_threshold", hp.ConvergenceThreshold)
	v.SetDefault("optimizer.max_iterations", hp.MaxIterations)
	v.SetDefault("optimizer.initial_theta0", hp.InitialTheta0)
	v.SetDefault("optimizer.initial_theta1", hp.InitialTheta1)
	v.SetDefault("data.path", "")
	v.SetDefault("data.x_column", "distance")
	v.SetDefault("data.y_column", "accuracy")
	v.SetDefault("data.separator", ",")
	v.SetDefault("data.header", true)
	v.SetDefault("output.format", "table")
	v.SetDefault("output.every", 1)
	v.SetDefault("output.interval", time.Duration(0))
	v.SetDefault("output.metrics_addr", "")
}

// GetDefaultConfig returns the configuration used when nothing is set.
func GetDefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var conf Config
	if err := unmarshal(v, &conf); err != nil {
		panic(err)
	}
	return &conf
}

// LoadConfig reads configuration. path may be empty. Flags in flagSet that
// appear in flagKeys and were set on the command line override every other
// source; flagSet may be nil.
func LoadConfig(path string, flagSet *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("descent")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	if flagSet != nil {
		for name, key := range flagKeys {
			if f := flagSet.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Trace(err)
				}
			}
		}
	}

	var conf Config
	if err := unmarshal(v, &conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

func unmarshal(v *viper.Viper, conf *Config) error {
	return v.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)))
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			fe := invalid[0]
			return errors.NotValidf("%s = %v (%s=%s)", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param())
		}
		return errors.Trace(err)
	}
	return nil
}
