// Package monitor exposes the progress of a descent as Prometheus gauges.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sky-flux/descent/optimizer"
)

const (
	namespace  = "descent"
	LabelParam = "param"
)

// Monitor is an optimizer.Observer that mirrors each observed state into
// gauges registered on its own registry.
type Monitor struct {
	registry *prometheus.Registry

	Iteration        prometheus.Gauge
	Theta            *prometheus.GaugeVec
	MeanSquaredError prometheus.Gauge
	Converged        prometheus.Gauge
	StepsTotal       prometheus.Counter
}

// NewMonitor creates the gauges. Every metric carries the run id as a
// constant label.
func NewMonitor(runID string) *Monitor {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	labels := prometheus.Labels{"run_id": runID}
	return &Monitor{
		registry: registry,
		Iteration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "optimizer",
			Name:        "iteration",
			ConstLabels: labels,
		}),
		Theta: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "optimizer",
			Name:        "theta",
			ConstLabels: labels,
		}, []string{LabelParam}),
		MeanSquaredError: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "optimizer",
			Name:        "mean_squared_error",
			ConstLabels: labels,
		}),
		Converged: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "optimizer",
			Name:        "converged",
			ConstLabels: labels,
		}),
		StepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "optimizer",
			Name:        "observed_states_total",
			ConstLabels: labels,
		}),
	}
}

// Observe implements optimizer.Observer.
func (m *Monitor) Observe(s optimizer.State) {
	m.Iteration.Set(float64(s.Iteration))
	m.Theta.WithLabelValues("theta0").Set(s.Theta0)
	m.Theta.WithLabelValues("theta1").Set(s.Theta1)
	m.MeanSquaredError.Set(s.MeanSquaredError)
	if s.Converged {
		m.Converged.Set(1)
	} else {
		m.Converged.Set(0)
	}
	m.StepsTotal.Inc()
}

// Handler serves the gauges in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
