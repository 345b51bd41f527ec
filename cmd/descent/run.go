package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sky-flux/descent"
	"github.com/sky-flux/descent/internal/config"
	"github.com/sky-flux/descent/internal/log"
	"github.com/sky-flux/descent/internal/monitor"
	"github.com/sky-flux/descent/optimizer"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Normalize observations and run gradient descent until it stops.",
		Args:  cobra.NoArgs,
		RunE:  runDescent,
	}
	addDataFlags(cmd.Flags())
	addOptimizerFlags(cmd.Flags())
	addFormatFlag(cmd.Flags())
	conf := config.GetDefaultConfig()
	cmd.Flags().Int("every", conf.Output.Every, "print every n-th step (0 prints the final step only)")
	cmd.Flags().Duration("interval", conf.Output.Interval, "pause between steps")
	cmd.Flags().String("metrics-addr", conf.Output.MetricsAddr, "serve Prometheus metrics on this address while running")
	return cmd
}

func runDescent(cmd *cobra.Command, _ []string) error {
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
	opt, err := optimizer.NewOptimizer(normalized, conf.Hyperparameters())
	if err != nil {
		return errors.Trace(err)
	}
	runID := uuid.NewString()
	logger := log.Logger().With(zap.String("run_id", runID))
	opt.SetLogger(logger)
	logger.Info("start gradient descent",
		zap.Int("observations", opt.Len()),
		zap.Any("hyperparameters", opt.Hyperparameters()),
		zap.Any("stats", stats))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	report, err := newTrajectory(out, conf.Output.Format, conf.Output.Every)
	if err != nil {
		return err
	}
	observers := []optimizer.Observer{report}
	if conf.Output.Format == "table" && conf.Output.Every == 0 {
		bar := progressbar.NewOptions(opt.Hyperparameters().MaxIterations,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("descending"),
			progressbar.OptionClearOnFinish())
		defer bar.Finish()
		observers = append(observers, optimizer.ObserverFunc(func(s optimizer.State) {
			_ = bar.Set(s.Iteration)
		}))
	}
	if conf.Output.MetricsAddr != "" {
		m := monitor.NewMonitor(runID)
		_, shutdown, err := serveMetrics(conf.Output.MetricsAddr, m.Handler(), logger)
		if err != nil {
			return err
		}
		defer shutdown()
		observers = append(observers, m)
	}
	if conf.Output.Interval > 0 {
		ticker := time.NewTicker(conf.Output.Interval)
		defer ticker.Stop()
		observers = append(observers, pace(ctx, ticker))
	}

	final, runErr := opt.Run(ctx, observers...)
	if err = report.Close(); err != nil {
		return err
	}
	if runErr != nil {
		return errors.Annotatef(runErr, "stopped at iteration %d", final.Iteration)
	}

	summary := cmd.ErrOrStderr()
	intercept, slope := stats.Denormalize(final.Theta0, final.Theta1)
	fmt.Fprintf(summary, "%s after %d iterations, mse = %s\n", opt.Phase(), final.Iteration, formatFloat(final.MeanSquaredError))
	fmt.Fprintf(summary, "normalized: %s\n", formatLine(final.Theta0, final.Theta1))
	fmt.Fprintf(summary, "raw scale:  %s\n", formatLine(intercept, slope))
	if theta0, theta1, err := descent.LeastSquares(normalized); err == nil {
		fmt.Fprintf(summary, "optimum:    %s\n", formatLine(theta0, theta1))
	}
	return nil
}

// pace blocks each observation until the next tick, so steps are spaced at
// least one interval apart.
func pace(ctx context.Context, ticker *time.Ticker) optimizer.Observer {
	return optimizer.ObserverFunc(func(optimizer.State) {
		select {
		case <-ticker.C:
		case <-ctx.Done():
		}
	})
}

// serveMetrics exposes handler at /metrics on addr until shutdown is called.
// It returns the bound address, which differs from addr for port 0.
func serveMetrics(addr string, handler http.Handler, logger *zap.Logger) (bound string, shutdown func(), err error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Annotatef(err, "listen %s", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	server := &http.Server{Handler: mux}
	bound = listener.Addr().String()
	logger.Info("start metrics server", zap.String("addr", bound))
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to serve metrics", zap.Error(err))
		}
	}()
	return bound, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("failed to shut down metrics server", zap.Error(err))
		}
	}, nil
}
