package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

// Metrics holds the daemon's prometheus collectors on a private
// registry, so tests can construct servers without collector name
// collisions.
type Metrics struct {
	registry         *prometheus.Registry
	simulationsTotal *prometheus.CounterVec
	runDuration      prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		simulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sdsim_simulations_total",
			Help: "Simulation runs by terminal status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sdsim_simulation_duration_seconds",
			Help:    "Wall-clock duration of simulation runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.simulationsTotal, m.runDuration)
	return m
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(status models.RunStatus, elapsed time.Duration) {
	m.simulationsTotal.WithLabelValues(string(status)).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
