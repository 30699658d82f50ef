// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server's collectors. A nil *Metrics is valid and
// records nothing, so packages can be used without a registry in tests.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	BalanceDuration *prometheus.HistogramVec
	ExpensesWritten *prometheus.CounterVec
	Settlements     prometheus.Counter
}

// New creates the collectors and registers them, along with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		BalanceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "balance_computation_seconds",
			Help:      "Time spent loading a snapshot and computing balances.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"scope"}),
		ExpensesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "expenses_written_total",
			Help:      "Expenses created or updated, by split type.",
		}, []string{"split_type"}),
		Settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "settlements_recorded_total",
			Help:      "Settlements recorded.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.BalanceDuration,
		m.ExpensesWritten,
		m.Settlements,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(seconds)
}

// ObserveBalance records the duration of a balance computation.
// scope is "group" or "user".
func (m *Metrics) ObserveBalance(scope string, seconds float64) {
	if m == nil {
		return
	}
	m.BalanceDuration.WithLabelValues(scope).Observe(seconds)
}

// ExpenseWritten counts a created or updated expense.
func (m *Metrics) ExpenseWritten(splitType string) {
	if m == nil {
		return
	}
	m.ExpensesWritten.WithLabelValues(splitType).Inc()
}

// SettlementRecorded counts a new settlement.
func (m *Metrics) SettlementRecorded() {
	if m == nil {
		return
	}
	m.Settlements.Inc()
}
