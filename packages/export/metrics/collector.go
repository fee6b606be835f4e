// Package metrics provides Prometheus metrics for request executions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
)

const namespace = "slng"

// Collector records request executions and data accessor extractions. It
// implements runner.Recorder.
type Collector struct {
	gatherer prometheus.Gatherer

	Executions        *prometheus.CounterVec
	TransportDuration *prometheus.HistogramVec
	Extractions       *prometheus.CounterVec
}

var _ runner.Recorder = (*Collector)(nil)

// New registers the collector on a fresh registry.
func New() *Collector {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collector on reg.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		gatherer: reg,
		Executions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Request executions by outcome",
			},
			[]string{"request", "outcome"},
		),
		TransportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transport_duration_seconds",
				Help:      "Duration of executions answered by the transport",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"request"},
		),
		Extractions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "Data accessor extractions by result",
			},
			[]string{"request", "result"},
		),
	}
}

// ObserveExecution counts every outcome. Only network outcomes feed the
// duration histogram, failures may never have reached the transport.
func (c *Collector) ObserveExecution(request, outcome string, d time.Duration) {
	c.Executions.WithLabelValues(request, outcome).Inc()
	if outcome == runner.OutcomeNetwork {
		c.TransportDuration.WithLabelValues(request).Observe(d.Seconds())
	}
}

func (c *Collector) ObserveExtraction(request, result string) {
	c.Extractions.WithLabelValues(request, result).Inc()
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// WriteFile writes the collected metrics to path for the node exporter
// textfile collector.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.gatherer)
}
