// Package metrics exposes the ledger's prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes recorded by ObserveOperation.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the ledger instruments and the registry they are registered on.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations    *prometheus.CounterVec
	managedAssets prometheus.Gauge
	chainHeight   prometheus.Gauge
	sweepDuration prometheus.Histogram
}

// New creates the ledger instruments on a fresh registry together with the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		managedAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_total_managed_assets",
			Help: "Native units held in custody across all portfolios.",
		}),
		chainHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_chain_height",
			Help: "Current block height.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_auto_rebalance_sweep_seconds",
			Help:    "Duration of the auto-rebalance sweep in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.operations,
		m.managedAssets,
		m.chainHeight,
		m.sweepDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveOperation counts one finished ledger operation.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// SetManagedAssets records the current total of managed assets.
func (m *Metrics) SetManagedAssets(v uint64) {
	if m == nil {
		return
	}
	m.managedAssets.Set(float64(v))
}

// SetChainHeight records the current block height.
func (m *Metrics) SetChainHeight(h uint64) {
	if m == nil {
		return
	}
	m.chainHeight.Set(float64(h))
}

// ObserveSweep records the duration of one auto-rebalance sweep in seconds.
func (m *Metrics) ObserveSweep(seconds float64) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(seconds)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
